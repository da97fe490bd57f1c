// Command sevactl is a terminal front end for the portal's profile and
// referral cards.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"

	"sevaportal/pkg/client"
)

const usage = `usage: sevactl [-server URL] [-timeout D] <command> [flags]

commands:
  login     -u USER -p PASSWORD   sign in and remember the access token
  profile   [-name N] [-email E] [-phone P]
                                  show the profile, or save the given fields
  referral  [-copy] [-origin URL] show the referral link, optionally copying it
`

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

type app struct {
	api       *client.Client
	tokenPath string
	clipboard client.Clipboard
	out       io.Writer
}

func main() {
	server := flag.String("server", envOr("SEVA_URL", "http://localhost:8080"), "API base URL")
	timeout := flag.Duration("timeout", 15*time.Second, "per-request timeout")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	a := &app{
		api:       newAPI(*server, *timeout),
		tokenPath: tokenPath(),
		clipboard: systemClipboard{},
		out:       os.Stdout,
	}
	if err := a.run(context.Background(), flag.Arg(0), flag.Args()[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "sevactl:", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		return a.login(ctx, args)
	case "profile":
		return a.profile(ctx, args)
	case "referral":
		return a.referral(ctx, args)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	username := fs.String("u", "", "username")
	password := fs.String("p", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" || *password == "" {
		return errors.New("login needs -u and -p")
	}

	tokens, err := a.api.Login(ctx, *username, *password)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(a.tokenPath), 0o700); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	if err := os.WriteFile(a.tokenPath, []byte(tokens.AccessToken), 0o600); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	fmt.Fprintf(a.out, "Signed in as %s\n", *username)
	return nil
}

func (a *app) profile(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	name := fs.String("name", "", "new name")
	email := fs.String("email", "", "new email")
	phone := fs.String("phone", "", "new phone")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.loadToken(); err != nil {
		return err
	}

	me, err := a.api.Me(ctx)
	if err != nil {
		return err
	}
	editor := client.NewProfileEditor(a.api, client.Profile{Name: me.Name, Email: me.Email, Phone: me.Phone})

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if len(set) > 0 {
		editor.Edit()
		if set["name"] {
			editor.SetName(*name)
		}
		if set["email"] {
			editor.SetEmail(*email)
		}
		if set["phone"] {
			editor.SetPhone(*phone)
		}
		if err := editor.Save(ctx); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Profile updated")
	}

	p := editor.Displayed()
	fmt.Fprintf(a.out, "Username: %s\nName:     %s\nEmail:    %s\nPhone:    %s\n", me.Username, p.Name, p.Email, p.Phone)
	return nil
}

func (a *app) referral(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("referral", flag.ContinueOnError)
	copyLink := fs.Bool("copy", false, "copy the link to the clipboard")
	origin := fs.String("origin", "", "origin to build the link from (default: as reported by the server)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.loadToken(); err != nil {
		return err
	}

	ref, err := a.api.Referral(ctx)
	if err != nil {
		return err
	}
	if *origin == "" {
		*origin = strings.TrimSuffix(ref.Link, "/auth?ref="+ref.Code)
	}
	card := client.NewReferralCard(*origin, ref.Code, a.clipboard)

	fmt.Fprintf(a.out, "Code:     %s\nLink:     %s\nRewards:  %d\nReferred: %d\n", ref.Code, card.Link(), ref.Rewards, ref.ReferredCount)
	if *copyLink {
		if err := card.Copy(); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Copied!")
	}
	return nil
}

// newAPI builds the API client. SEVA_TOKEN, when set, takes the place of the
// token saved by login.
func newAPI(server string, timeout time.Duration) *client.Client {
	opts := []client.Option{client.WithHTTPClient(&http.Client{Timeout: timeout})}
	if token := os.Getenv("SEVA_TOKEN"); token != "" {
		opts = append(opts, client.WithToken(token))
	}
	return client.New(server, opts...)
}

func (a *app) loadToken() error {
	if a.api.Token() != "" {
		return nil
	}
	data, err := os.ReadFile(a.tokenPath)
	if err != nil {
		return errors.New("not signed in; run sevactl login first")
	}
	a.api.SetToken(strings.TrimSpace(string(data)))
	return nil
}

func tokenPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "sevactl", "token")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
