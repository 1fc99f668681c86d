package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"

	"github.com/apper-canvas/studyflow-beta-ether/adapters/apper"
	"github.com/apper-canvas/studyflow-beta-ether/adapters/local"
	"github.com/apper-canvas/studyflow-beta-ether/config"
	"github.com/apper-canvas/studyflow-beta-ether/core"
	"github.com/apper-canvas/studyflow-beta-ether/middleware/auth"
	"github.com/apper-canvas/studyflow-beta-ether/notify"
	"github.com/apper-canvas/studyflow-beta-ether/ui"

	_ "github.com/mattn/go-sqlite3"
)

func main() {
	cfg := config.LoadConfig()

	transport, cleanup, err := buildTransport(cfg)
	if err != nil {
		log.Fatalf("transport setup failed: %v", err)
	}
	defer cleanup()

	hub := notify.NewHub(notify.DefaultHubCapacity)

	users := map[string]auth.BasicAuthUser{
		cfg.Auth.BasicAuthUser: auth.NewBasicAuthUser(
			cfg.Auth.BasicAuthUser, cfg.Auth.BasicAuthPass,
			"1", cfg.Auth.BasicAuthUser+"@studyflow.local", []string{"admin"},
		),
	}

	adm := core.New(transport, hub, auth.WithBasicAuth(users))

	registerActivities(adm)
	registerTeachers(adm)

	mux := http.NewServeMux()
	mux.Handle("/admin/", ui.Handler(adm, hub))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/admin", http.StatusFound)
	})

	log.Printf("studyflow admin listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

// buildTransport picks the backend: the hosted data API by default, or the
// embedded sqlite store when STUDYFLOW_LOCAL_STORE is set
func buildTransport(cfg *config.Config) (core.Transport, func(), error) {
	if cfg.LocalStore {
		db, err := sql.Open("sqlite3", cfg.LocalDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening %s: %w", cfg.LocalDBPath, err)
		}
		if err := bootstrapSchema(db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("bootstrapping schema: %w", err)
		}
		return local.NewWithDebug(db, cfg.DebugEnabled), func() { db.Close() }, nil
	}

	if cfg.Apper.ProjectID == "" || cfg.Apper.APIKey == "" {
		return nil, nil, fmt.Errorf("STUDYFLOW_APPER_PROJECT_ID and STUDYFLOW_APPER_API_KEY are required (or set STUDYFLOW_LOCAL_STORE=true)")
	}
	transport := apper.NewWithDebug(cfg.Apper.BaseURL, cfg.Apper.ProjectID, cfg.Apper.APIKey, cfg.DebugEnabled)
	return transport, func() {}, nil
}

func bootstrapSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS activity_c (
			"Id" INTEGER PRIMARY KEY AUTOINCREMENT,
			"Name" TEXT NOT NULL,
			"subject_c" TEXT,
			"due_date_c" TEXT NOT NULL,
			"status_c" TEXT,
			"points_c" REAL,
			"Tags" TEXT,
			"CreatedOn" TEXT DEFAULT (datetime('now'))
		)`,
		`CREATE TABLE IF NOT EXISTS teacher_c (
			"Id" INTEGER PRIMARY KEY AUTOINCREMENT,
			"Name" TEXT NOT NULL,
			"email_c" TEXT UNIQUE,
			"department_c" TEXT,
			"office_hours_c" TEXT,
			"CreatedOn" TEXT DEFAULT (datetime('now'))
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func registerActivities(adm *core.Admin) {
	adm.RegisterResource("activity_c").
		WithName("Activity").
		WithField("Name", func(f *core.FieldBuilder) {
			f.Label("Title").Required(true).Searchable(true)
		}).
		WithField("subject_c", func(f *core.FieldBuilder) {
			f.Type(core.FieldPicklist).
				Choices("Math", "Science", "History", "Language", "Art")
		}).
		WithField("due_date_c", func(f *core.FieldBuilder) {
			f.Type(core.FieldDate).Required(true)
		}).
		WithField("status_c", func(f *core.FieldBuilder) {
			f.Label("Status").Type(core.FieldPicklist).
				Choices("Planned", "In Progress", "Completed").
				Default("Planned")
		}).
		WithField("points_c", func(f *core.FieldBuilder) {
			f.Type(core.FieldNumber)
		}).
		WithField("Tags", func(f *core.FieldBuilder) {
			f.Type(core.FieldTags)
		}).
		WithField("CreatedOn", func(f *core.FieldBuilder) {
			f.Type(core.FieldDateTime).ReadOnly(true)
		}).
		WithDefaultSort("due_date_c", core.SortAsc).
		WithAction("mark-complete", "Mark Complete", markComplete)
}

func registerTeachers(adm *core.Admin) {
	adm.RegisterResource("teacher_c").
		WithName("Teacher").
		WithField("Name", func(f *core.FieldBuilder) {
			f.Required(true).Searchable(true)
		}).
		WithField("email_c", func(f *core.FieldBuilder) {
			f.Label("Email").Required(true)
		}).
		WithField("department_c", func(f *core.FieldBuilder) {
			f.Type(core.FieldPicklist).
				Choices("Sciences", "Humanities", "Arts", "Athletics")
		}).
		WithField("office_hours_c", func(f *core.FieldBuilder) {
			f.MaxPreviewLength(40)
		}).
		WithField("CreatedOn", func(f *core.FieldBuilder) {
			f.Type(core.FieldDateTime).ReadOnly(true)
		})
}

// markComplete flips an activity's status through the regular write path so
// the whitelist and outcome rules apply
func markComplete(ctx context.Context, client *core.Client, id int) error {
	outcome := client.Update(ctx, id, core.Record{"status_c": "Completed"})
	if outcome.IsSuccess() {
		return nil
	}
	return fmt.Errorf("%s", outcome.Message)
}
