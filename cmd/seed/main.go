package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"crm/internal/config"
	"crm/internal/database"
	"crm/internal/domain/lead"
	"crm/internal/domain/note"
	"crm/internal/pkg/cache"
	"crm/internal/pkg/events"
	"crm/internal/pkg/logger"
)

type demoLead struct {
	Name       string
	Address    string
	Phone      string
	Occupation string
	Status     lead.Status
	Notes      []string
}

var demoLeads = []demoLead{
	{
		Name: "Jane Doe", Address: "12 Harbour Road, Springfield", Phone: "555-0101",
		Occupation: "Product Manager", Status: lead.StatusHot,
		Notes: []string{"Asked for a pricing sheet", "Demo booked for Thursday"},
	},
	{
		Name: "Omar Haddad", Address: "4 Birch Lane, Riverton", Phone: "555-0102",
		Occupation: "Architect", Status: lead.StatusWarm,
		Notes: []string{"Met at the trade fair"},
	},
	{
		Name: "Mei Lin", Address: "88 Orchard Street, Lakeside", Phone: "555-0103",
		Occupation: "Accountant", Status: lead.StatusCold,
	},
	{
		Name: "Carlos Mendes", Address: "230 Station Avenue, Hillview", Phone: "555-0104",
		Occupation: "Restaurant Owner", Status: lead.StatusWarm,
		Notes: []string{"Prefers calls after 6pm", "Budget approval pending", "Follow up next month"},
	},
	{
		Name: "Aisha Bello", Address: "17 Quarry Close, Westfield", Phone: "555-0105",
		Occupation: "Teacher", Status: lead.StatusHot,
	},
}

func main() {
	dsnFlag := flag.String("dsn", "", "Database URL or SQLite path (defaults to DATABASE_URL / DB_*)")
	reset := flag.Bool("reset", false, "Delete existing leads and notes first")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	if err := logger.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		logrus.Fatalf("logger: %v", err)
	}

	dsn := cfg.DB.DSN()
	if *dsnFlag != "" {
		dsn = *dsnFlag
	}

	if err := run(dsn, cfg.DB.MaxOpenConns, *reset); err != nil {
		logrus.Fatal(err)
	}
}

func run(dsn string, maxOpenConns int, reset bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := database.EnsureDatabase(ctx, dsn); err != nil {
		return fmt.Errorf("ensure database: %w", err)
	}
	db, err := database.Connect(dsn, database.Pool{MaxOpenConns: maxOpenConns})
	if err != nil {
		return fmt.Errorf("DB connection failed: %w", err)
	}
	defer database.Close(db)

	if err := database.InitSchema(ctx, db); err != nil {
		return fmt.Errorf("schema init failed: %w", err)
	}

	leadCount, noteCount, err := seed(ctx, db, reset)
	if err != nil {
		return err
	}
	if leadCount == 0 {
		return nil
	}
	logrus.WithFields(logrus.Fields{
		"leads": leadCount,
		"notes": noteCount,
	}).Info("Seed completed")
	return nil
}

// seed inserts the demo leads. Without reset it leaves a non-empty
// database alone and reports zero rows.
func seed(ctx context.Context, db *gorm.DB, reset bool) (leadCount, noteCount int, err error) {
	if reset {
		logrus.Info("Cleaning old data...")
		// notes go with their leads
		if err := db.WithContext(ctx).Exec("DELETE FROM leads").Error; err != nil {
			return 0, 0, fmt.Errorf("reset: %w", err)
		}
	} else {
		var existing int64
		if err := db.WithContext(ctx).Raw("SELECT COUNT(*) FROM leads").Scan(&existing).Error; err != nil {
			return 0, 0, fmt.Errorf("count leads: %w", err)
		}
		if existing > 0 {
			logrus.WithField("leads", existing).Info("Database already has leads, skipping seed (use -reset)")
			return 0, 0, nil
		}
	}

	leads := lead.NewService(lead.NewRepository(db), cache.Nop{}, events.Nop{}, time.Minute)
	notes := note.NewService(note.NewRepository(db), events.Nop{})

	logrus.Info("Creating leads...")
	for _, d := range demoLeads {
		status := d.Status
		if !status.Valid() {
			status = lead.DefaultStatus
		}
		id, err := leads.Create(ctx, &lead.CreateLeadRequest{
			Name:       &d.Name,
			Address:    &d.Address,
			Phone:      &d.Phone,
			Occupation: &d.Occupation,
			Status:     &status,
		})
		if err != nil {
			return leadCount, noteCount, fmt.Errorf("create lead %q: %w", d.Name, err)
		}
		leadCount++

		for _, content := range d.Notes {
			if _, err := notes.Create(ctx, id, &note.CreateNoteRequest{Content: &content}); err != nil {
				return leadCount, noteCount, fmt.Errorf("create note for %q: %w", d.Name, err)
			}
			noteCount++
		}
	}
	return leadCount, noteCount, nil
}
