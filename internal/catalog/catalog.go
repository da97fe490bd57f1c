// Package catalog holds the fixed set of government-document assistance
// services offered on the platform and seeds it into a repository.
package catalog

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"sevaportal/internal/model"
	"sevaportal/internal/repository"
)

// Catalog categories. Category filters match these values exactly.
const (
	// CategoryIdentity covers Aadhaar and voter-ID services.
	CategoryIdentity = "identity"
	// CategoryTravel covers passports and police clearance.
	CategoryTravel = "travel"
	// CategoryCertificates covers civil-registry and revenue certificates.
	CategoryCertificates = "certificates"
	// CategoryTax covers PAN and tax filings.
	CategoryTax = "tax"
	// CategoryVehicle covers driving licences and vehicle registration.
	CategoryVehicle = "vehicle"
	// CategoryProperty covers land records and property tax.
	CategoryProperty = "property"
	// CategoryWelfare covers pensions and welfare schemes.
	CategoryWelfare = "welfare"
)

type entry struct {
	name, description, category string
	price                       int64
	processingTime              string
	requirements                []string
	icon, badge, badgeColor     string
}

var entries = []entry{
	{"New Aadhaar Enrolment Assistance", "Appointment booking and document preparation for first-time Aadhaar enrolment.", CategoryIdentity, 199, "15-30 days",
		[]string{"Proof of identity", "Proof of address", "Date of birth proof"}, "id-card", "Popular", "blue"},
	{"Aadhaar Address Update", "Online update of the address on your Aadhaar with document verification.", CategoryIdentity, 149, "5-7 days",
		[]string{"Aadhaar number", "Registered mobile", "Proof of address"}, "home", "", ""},
	{"Aadhaar Mobile Number Linking", "Slot booking and guidance to link or change the mobile number on Aadhaar.", CategoryIdentity, 99, "1-3 days",
		[]string{"Aadhaar card", "Mobile number"}, "phone", "", ""},
	{"Aadhaar PVC Card Order", "Order a durable PVC Aadhaar card delivered by post.", CategoryIdentity, 79, "10-15 days",
		[]string{"Aadhaar number", "Registered mobile"}, "credit-card", "", ""},
	{"Voter ID Registration", "New voter registration with Form 6 filing and tracking.", CategoryIdentity, 149, "30-45 days",
		[]string{"Age proof", "Address proof", "Passport photo"}, "vote", "", ""},
	{"Voter ID Correction", "Correction of name, address or photo on the electoral roll.", CategoryIdentity, 129, "15-30 days",
		[]string{"EPIC number", "Supporting document for correction"}, "edit", "", ""},
	{"New PAN Card Application", "Form 49A filing for a new PAN card with e-PAN.", CategoryTax, 199, "7-15 days",
		[]string{"Aadhaar card", "Passport photo", "Signature"}, "file-text", "Popular", "blue"},
	{"PAN Card Correction", "Change of name, date of birth or photo on an existing PAN.", CategoryTax, 179, "7-15 days",
		[]string{"Existing PAN", "Proof of correct details"}, "edit-3", "", ""},
	{"PAN-Aadhaar Linking", "Linking PAN with Aadhaar including late fee payment guidance.", CategoryTax, 99, "1-3 days",
		[]string{"PAN", "Aadhaar number"}, "link", "Fast", "green"},
	{"Income Tax Return Filing", "Preparation and e-filing of ITR-1/ITR-2 for salaried individuals.", CategoryTax, 499, "2-5 days",
		[]string{"Form 16", "PAN", "Bank statements"}, "trending-up", "", ""},
	{"GST Registration", "New GST registration for small businesses and proprietors.", CategoryTax, 999, "7-10 days",
		[]string{"PAN", "Aadhaar", "Business address proof", "Bank details"}, "briefcase", "", ""},
	{"Fresh Passport Application", "Online application, fee payment and appointment booking at PSK.", CategoryTravel, 499, "30-45 days",
		[]string{"Aadhaar card", "Address proof", "Date of birth proof"}, "globe", "Popular", "blue"},
	{"Passport Renewal", "Re-issue of passport on expiry or exhaustion of pages.", CategoryTravel, 449, "15-30 days",
		[]string{"Old passport", "Address proof"}, "refresh-cw", "", ""},
	{"Tatkal Passport", "Urgent passport application under the Tatkal scheme.", CategoryTravel, 799, "3-7 days",
		[]string{"Aadhaar card", "Annexure F", "Address proof"}, "zap", "Urgent", "red"},
	{"Police Clearance Certificate", "PCC application for employment or immigration abroad.", CategoryTravel, 349, "7-15 days",
		[]string{"Passport", "Address proof"}, "shield", "", ""},
	{"Birth Certificate", "Application for a birth certificate from the municipal registrar.", CategoryCertificates, 149, "7-15 days",
		[]string{"Hospital discharge summary", "Parents' ID proof"}, "award", "", ""},
	{"Death Certificate", "Registration and issue of a death certificate.", CategoryCertificates, 149, "7-15 days",
		[]string{"Medical certificate of cause of death", "Applicant ID proof"}, "file", "", ""},
	{"Income Certificate", "Income certificate from the tehsil or revenue office.", CategoryCertificates, 129, "7-10 days",
		[]string{"Salary slip or income proof", "Ration card", "Aadhaar card"}, "dollar-sign", "", ""},
	{"Caste Certificate", "SC/ST/OBC caste certificate application.", CategoryCertificates, 149, "15-30 days",
		[]string{"Aadhaar card", "Family caste proof", "Residence proof"}, "users", "", ""},
	{"Domicile Certificate", "Residence or domicile certificate from the state authority.", CategoryCertificates, 129, "7-15 days",
		[]string{"Address proof", "Aadhaar card", "School leaving certificate"}, "map-pin", "", ""},
	{"Marriage Certificate", "Registration of marriage and issue of certificate.", CategoryCertificates, 299, "15-30 days",
		[]string{"Marriage photographs", "Age proofs", "Witness IDs"}, "heart", "", ""},
	{"Driving Licence (Learner)", "Learner's licence application and test slot booking.", CategoryVehicle, 249, "7-10 days",
		[]string{"Aadhaar card", "Address proof", "Medical certificate (40+)"}, "truck", "", ""},
	{"Driving Licence Renewal", "Renewal of an expired or expiring driving licence.", CategoryVehicle, 199, "7-15 days",
		[]string{"Existing licence", "Medical certificate (40+)"}, "rotate-cw", "", ""},
	{"Vehicle RC Transfer", "Transfer of vehicle ownership on the registration certificate.", CategoryVehicle, 399, "15-30 days",
		[]string{"Original RC", "Sale agreement", "Form 29 and 30"}, "repeat", "", ""},
	{"Land Record Extract", "Copy of land records (7/12, khatauni or jamabandi).", CategoryProperty, 99, "1-3 days",
		[]string{"Survey number", "Village and district"}, "layers", "Fast", "green"},
	{"Property Tax Payment", "Assessment lookup and municipal property tax payment.", CategoryProperty, 79, "1-2 days",
		[]string{"Property ID", "Previous receipt"}, "home", "", ""},
	{"Encumbrance Certificate", "Encumbrance certificate from the sub-registrar office.", CategoryProperty, 249, "7-15 days",
		[]string{"Property details", "Applicant ID proof"}, "clipboard", "", ""},
	{"Ration Card Application", "New ration card or addition of family members.", CategoryWelfare, 149, "15-30 days",
		[]string{"Aadhaar of all members", "Address proof", "Income certificate"}, "shopping-bag", "", ""},
	{"Ayushman Bharat Card", "Eligibility check and PM-JAY health card generation.", CategoryWelfare, 49, "1-3 days",
		[]string{"Aadhaar card", "Ration card"}, "activity", "New", "purple"},
	{"Senior Citizen Pension", "Old-age pension scheme application and tracking.", CategoryWelfare, 99, "30-60 days",
		[]string{"Age proof", "Bank passbook", "Aadhaar card"}, "user-check", "", ""},
}

// Services returns a fresh copy of the catalog in its canonical order.
func Services() []model.Service {
	services := make([]model.Service, 0, len(entries))
	for _, e := range entries {
		services = append(services, model.Service{
			Name:           e.name,
			Description:    e.description,
			Category:       e.category,
			Price:          decimal.NewFromInt(e.price),
			ProcessingTime: e.processingTime,
			Requirements:   append([]string(nil), e.requirements...),
			Icon:           e.icon,
			Badge:          e.badge,
			BadgeColor:     e.badgeColor,
		})
	}
	return services
}

// Seed inserts the catalog unless the repository already holds services. It
// returns the number of records created.
func Seed(ctx context.Context, repo repository.ServiceRepository) (int, error) {
	existing, err := repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count services: %w", err)
	}
	if existing > 0 {
		return 0, nil
	}

	created := 0
	for _, svc := range Services() {
		svc := svc
		if err := repo.Create(ctx, &svc); err != nil {
			return created, fmt.Errorf("create service %q: %w", svc.Name, err)
		}
		created++
	}
	return created, nil
}
