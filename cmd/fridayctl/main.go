// cmd/fridayctl/main.go
//
// fridayctl – deployment configuration toolkit for the Friday web UI.
//
// Command surface
// ---------------
//
//	check <profile>               – resolve and fail fast on a missing secret.
//	resolve <profile> [--reveal]  – print the resolved table with origins.
//	render env|dospec <profile>   – emit a Compose env_file or an App
//	                                Platform env block.
//	profiles                      – list configured deployment profiles.
//	record <profile>              – resolve and record a release row.
//	history <profile>             – list recorded releases.
//	serve [--addr]                – HTTP service mode for control planes.
//
// Bootstrap mirrors the usual layout: a jail-wide env file is preferred,
// falling back to a local .env for development; the daily rotating
// logger tees to the console when stdout is a TTY.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"github.com/fridaylabs/fridayctl/internal/catalog"
	"github.com/fridaylabs/fridayctl/internal/database"
	"github.com/fridaylabs/fridayctl/internal/logger"
	"github.com/fridaylabs/fridayctl/internal/profile"
	"github.com/fridaylabs/fridayctl/internal/release"
	"github.com/fridaylabs/fridayctl/internal/render"
	"github.com/fridaylabs/fridayctl/internal/resolve"
	"github.com/fridaylabs/fridayctl/internal/server"
	"github.com/fridaylabs/fridayctl/internal/vault"
)

const (
	serverEnvPath    = "/usr/local/etc/fridayctl/global.env"
	defaultEnvPrefix = "FRIDAY_"
)

// loadEnv prefers the jail-wide env file; on dev it falls back to .env.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
		return
	}
	_ = godotenv.Load()
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func init() { loadEnv() }

func main() {
	app := kingpin.New("fridayctl", "Deployment configuration toolkit for the Friday web UI.")
	profilesPath := app.Flag("profiles-file", "Path to the profiles file.").Default("conf/profiles.yaml").String()

	checkCmd := app.Command("check", "Resolve a profile and fail when a required value is missing.")
	checkProfile := checkCmd.Arg("profile", "Deployment profile name.").Required().String()

	resolveCmd := app.Command("resolve", "Print the resolved configuration for a profile.")
	resolveProfile := resolveCmd.Arg("profile", "Deployment profile name.").Required().String()
	resolveReveal := resolveCmd.Flag("reveal", "Print secret values instead of masking them.").Bool()

	renderCmd := app.Command("render", "Render a deployment artifact for a profile.")
	renderFormat := renderCmd.Arg("format", "Artifact format.").Required().Enum("env", "dospec")
	renderProfile := renderCmd.Arg("profile", "Deployment profile name.").Required().String()
	renderOut := renderCmd.Flag("out", "Write the artifact to a file instead of stdout.").String()
	renderReveal := renderCmd.Flag("reveal", "Include secret values in the env artifact.").Bool()

	profilesCmd := app.Command("profiles", "List configured deployment profiles.")

	recordCmd := app.Command("record", "Resolve a profile and record a release row.")
	recordProfile := recordCmd.Arg("profile", "Deployment profile name.").Required().String()

	historyCmd := app.Command("history", "List recorded releases for a profile.")
	historyProfile := historyCmd.Arg("profile", "Deployment profile name.").Required().String()
	historyLimit := historyCmd.Flag("limit", "Maximum rows to list.").Default("20").Int()

	serveCmd := app.Command("serve", "Run the HTTP service mode.")
	serveAddr := serveCmd.Flag("addr", "Listen address.").Default(":9090").String()

	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	rootDir, _ := os.Getwd()
	logOut, err := logger.New(rootDir, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer func() { _ = logOut.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tool := &toolkit{ctx: ctx, app: app, profilesPath: *profilesPath}

	switch cmd {
	case checkCmd.FullCommand():
		tool.check(*checkProfile)
	case resolveCmd.FullCommand():
		tool.printResolved(*resolveProfile, *resolveReveal)
	case renderCmd.FullCommand():
		tool.render(*renderFormat, *renderProfile, *renderOut, *renderReveal)
	case profilesCmd.FullCommand():
		tool.listProfiles()
	case recordCmd.FullCommand():
		tool.record(*recordProfile)
	case historyCmd.FullCommand():
		tool.history(*historyProfile, *historyLimit)
	case serveCmd.FullCommand():
		tool.serve(*serveAddr)
	}
}

//
// Command implementations
//

type toolkit struct {
	ctx          context.Context
	app          *kingpin.Application
	profilesPath string

	set     *profile.Set
	secrets resolve.SecretResolver
}

// profiles lazily loads and caches the profiles file.
func (t *toolkit) profiles() *profile.Set {
	if t.set == nil {
		set, err := profile.Load(t.profilesPath)
		if err != nil {
			t.app.Fatalf("%v", err)
		}
		t.set = set
	}
	return t.set
}

// resolver returns the Vault client when the environment points at a
// Vault server; purely local profiles run without one.
func (t *toolkit) resolver() resolve.SecretResolver {
	if t.secrets == nil && vault.Enabled() {
		cli, err := vault.New(t.ctx)
		if err != nil {
			t.app.Fatalf("vault: %v", err)
		}
		t.secrets = cli
	}
	return t.secrets
}

// snapshot assembles the source stack for one profile and resolves it.
// Precedence, lowest to highest: catalog defaults, profile values, the
// profile's .env file, host environment overrides.
func (t *toolkit) snapshot(name string) (*resolve.Snapshot, profile.Profile, error) {
	p, err := t.profiles().Get(name)
	if err != nil {
		return nil, profile.Profile{}, err
	}

	sources := make([]resolve.Source, 0, 3)
	if len(p.Values) > 0 {
		sources = append(sources, resolve.Static("profile", p.Values))
	}
	if p.Dotenv != "" {
		src, err := resolve.Dotenv(p.Dotenv)
		if err != nil {
			return nil, p, err
		}
		sources = append(sources, src)
	}
	prefix := p.EnvPrefix
	if prefix == "" {
		prefix = defaultEnvPrefix
	}
	env, err := resolve.Environ(prefix)
	if err != nil {
		return nil, p, err
	}
	sources = append(sources, env)

	snap, err := resolve.Resolve(t.ctx, resolve.Options{
		Catalog: catalog.Friday(),
		Profile: name,
		Sources: sources,
		Secrets: t.resolver(),
	})
	return snap, p, err
}

func (t *toolkit) check(name string) {
	snap, _, err := t.snapshot(name)
	if err != nil {
		t.app.Fatalf("%v", err)
	}
	fmt.Printf("profile %s resolves cleanly: %d keys, checksum %s\n",
		name, len(snap.Values), snap.Checksum()[:12])
}

func (t *toolkit) printResolved(name string, reveal bool) {
	snap, _, err := t.snapshot(name)
	if err != nil {
		t.app.Fatalf("%v", err)
	}

	values := snap.Values
	if !reveal {
		values = render.RedactValues(snap, catalog.Friday())
	}
	for _, k := range snap.Keys() {
		fmt.Printf("%-36s %-12s %s\n", k, snap.Origins[k], values[k])
	}
}

func (t *toolkit) render(format, name, out string, reveal bool) {
	snap, _, err := t.snapshot(name)
	if err != nil {
		t.app.Fatalf("%v", err)
	}

	var artifact []byte
	switch format {
	case "env":
		if reveal {
			artifact = render.Plain(snap, catalog.Friday())
		} else {
			artifact = render.Redacted(snap, catalog.Friday())
		}
	case "dospec":
		artifact, err = render.DOSpec(snap, catalog.Friday())
		if err != nil {
			t.app.Fatalf("render dospec: %v", err)
		}
	}

	if out == "" {
		_, _ = os.Stdout.Write(artifact)
		return
	}
	// Artifacts rendered with --reveal carry secrets; keep them 0600.
	if err := os.WriteFile(out, artifact, 0o600); err != nil {
		t.app.Fatalf("write %s: %v", out, err)
	}
	fmt.Printf("wrote %s (%d bytes)\n", out, len(artifact))
}

func (t *toolkit) listProfiles() {
	for _, name := range t.profiles().Names() {
		p, _ := t.profiles().Get(name)
		fmt.Printf("%-16s %-14s dotenv=%s\n", p.Name, p.Platform, orDash(p.Dotenv))
	}
}

func (t *toolkit) record(name string) {
	snap, _, err := t.snapshot(name)
	if err != nil {
		t.app.Fatalf("%v", err)
	}

	db := t.openDB()
	defer db.Close()

	rel, err := release.Record(t.ctx, db, name, snap.Checksum())
	if err != nil {
		t.app.Fatalf("record release: %v", err)
	}
	fmt.Printf("recorded release %s for %s (checksum %s)\n", rel.ID, name, rel.Checksum[:12])
}

func (t *toolkit) history(name string, limit int) {
	// Validate the profile name before touching the database.
	if _, err := t.profiles().Get(name); err != nil {
		t.app.Fatalf("%v", err)
	}

	db := t.openDB()
	defer db.Close()

	list, err := release.ListFor(t.ctx, db, name, limit)
	if err != nil {
		t.app.Fatalf("list releases: %v", err)
	}
	if len(list) == 0 {
		fmt.Printf("no releases recorded for %s\n", name)
		return
	}
	for _, rel := range list {
		fmt.Printf("%s  %s  %s\n", rel.CreatedAt.Format("2006-01-02 15:04:05"), rel.ID, rel.Checksum[:12])
	}
}

func (t *toolkit) serve(addr string) {
	set := t.profiles()
	handler := server.Handler(server.Config{
		Profiles: set,
		Catalog:  catalog.Friday(),
		Resolver: func(ctx context.Context, name string) (*resolve.Snapshot, error) {
			snap, _, err := t.snapshot(name)
			return snap, err
		},
	})

	srv := server.New(addr, handler)
	fmt.Printf("listening on %s\n", addr)
	if err := srv.ListenAndServe(); err != nil {
		t.app.Fatalf("http server: %v", err)
	}
}

func (t *toolkit) openDB() *sqlx.DB {
	dsn := os.Getenv("GLOBAL_DB_DSN")
	if dsn == "" {
		t.app.Fatalf("GLOBAL_DB_DSN is not set; release history needs the control-plane database")
	}
	db, err := database.Open(dsn)
	if err != nil {
		t.app.Fatalf("connect control-plane DB: %v", err)
	}
	return db
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
