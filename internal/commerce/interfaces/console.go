package interfaces

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"emporium/internal/commerce/application"
	"emporium/internal/commerce/domain"
	"emporium/internal/commerce/infrastructure"
	"emporium/internal/pkg/config"
)

var (
	heading = color.New(color.FgCyan, color.Bold)
	ok      = color.New(color.FgGreen)
	warn    = color.New(color.FgYellow)
	fail    = color.New(color.FgRed)
)

// Console is the interactive menu surface. All input is line based; invalid
// input re-prompts and never aborts the loop.
type Console struct {
	cfg     *config.Config
	db      *gorm.DB
	manager *application.LifecycleManager
	runner  *infrastructure.ScriptRunner
	in      *bufio.Reader
}

func NewConsole(cfg *config.Config, db *gorm.DB, manager *application.LifecycleManager) *Console {
	return &Console{
		cfg:     cfg,
		db:      db,
		manager: manager,
		runner:  infrastructure.NewScriptRunner(db),
		in:      bufio.NewReader(os.Stdin),
	}
}

func (c *Console) Run(ctx context.Context) error {
	for {
		heading.Println("\n=== emporium ===")
		fmt.Println("1. User management")
		fmt.Println("2. Database management")
		fmt.Println("3. Statistics")
		fmt.Println("0. Exit")

		switch c.prompt("Choice") {
		case "1":
			c.userMenu(ctx)
		case "2":
			c.databaseMenu(ctx)
		case "3":
			c.printStatistics(ctx)
		case "0", "q", "exit":
			return nil
		default:
			warn.Println("Invalid choice, try again.")
		}
	}
}

func (c *Console) prompt(label string) string {
	fmt.Printf("%s: ", label)
	line, err := c.in.ReadString('\n')
	if err != nil && err != io.EOF {
		zlog.Error().Err(err).Msg("read input")
	}
	return strings.TrimSpace(line)
}

func (c *Console) userMenu(ctx context.Context) {
	for {
		heading.Println("\n--- Users ---")
		fmt.Println("1. List users")
		fmt.Println("2. Create user")
		fmt.Println("3. View user")
		fmt.Println("4. Update user email")
		fmt.Println("5. Delete user")
		fmt.Println("0. Back")

		uow := infrastructure.NewUnitOfWork(c.db)
		switch c.prompt("Choice") {
		case "1":
			users, err := uow.Users().GetAll(ctx)
			if err != nil {
				fail.Printf("list failed: %v\n", err)
				continue
			}
			for i, u := range users {
				if i >= 20 {
					warn.Printf("... and %d more\n", len(users)-20)
					break
				}
				fmt.Printf("%s  %-30s %-30s %s\n", u.ID, u.Username, u.Email, u.Status)
			}
		case "2":
			u := &domain.User{
				Username: c.prompt("Username"),
				Email:    c.prompt("Email"),
				Status:   domain.UserStatusActive,
				Role:     domain.UserRoleUser,
			}
			if u.Username == "" || u.Email == "" {
				warn.Println("Username and email are required.")
				continue
			}
			err := uow.Users().Add(u)
			if err == nil {
				_, err = uow.SaveChanges(ctx)
			}
			if err != nil {
				fail.Printf("create failed: %v\n", err)
				continue
			}
			ok.Printf("Created user %s\n", u.ID)
		case "3":
			u := c.lookupUser(ctx, uow)
			if u == nil {
				continue
			}
			fmt.Printf("ID:       %s\nUsername: %s\nEmail:    %s\nStatus:   %s\nRole:     %s\nBalance:  %.2f\n",
				u.ID, u.Username, u.Email, u.Status, u.Role, u.Balance)
		case "4":
			u := c.lookupUser(ctx, uow)
			if u == nil {
				continue
			}
			email := c.prompt("New email")
			if email == "" {
				warn.Println("Email is required.")
				continue
			}
			u.Email = email
			err := uow.Users().Update(u)
			if err == nil {
				_, err = uow.SaveChanges(ctx)
			}
			if err != nil {
				fail.Printf("update failed: %v\n", err)
				continue
			}
			ok.Println("Updated.")
		case "5":
			u := c.lookupUser(ctx, uow)
			if u == nil {
				continue
			}
			err := uow.Users().Delete(u)
			if err == nil {
				_, err = uow.SaveChanges(ctx)
			}
			if err != nil {
				// orders or authored reviews restrict deletion
				fail.Printf("delete failed: %v\n", err)
				continue
			}
			ok.Println("Deleted (owned profile and sessions removed with it).")
		case "0":
			return
		default:
			warn.Println("Invalid choice, try again.")
		}
	}
}

func (c *Console) lookupUser(ctx context.Context, uow *infrastructure.UnitOfWork) *domain.User {
	id, err := uuid.Parse(c.prompt("User id"))
	if err != nil {
		warn.Println("Not a valid id.")
		return nil
	}
	u, err := uow.Users().GetByID(ctx, id)
	if err != nil {
		fail.Printf("lookup failed: %v\n", err)
		return nil
	}
	if u == nil {
		warn.Println("No such user.")
		return nil
	}
	return u
}

func (c *Console) databaseMenu(ctx context.Context) {
	for {
		heading.Println("\n--- Database ---")
		fmt.Println("1. Check connectivity")
		fmt.Println("2. Create schema")
		fmt.Println("3. Apply migrations")
		fmt.Println("4. Run database object scripts")
		fmt.Println("5. Seed (skips when data exists)")
		fmt.Println("6. Force reseed")
		fmt.Println("0. Back")

		switch c.prompt("Choice") {
		case "1":
			if c.manager.IsAccessible(ctx) {
				ok.Println("Database is accessible.")
			} else {
				fail.Println("Database is NOT accessible.")
			}
		case "2":
			created, err := c.manager.EnsureCreated(ctx)
			switch {
			case err != nil:
				fail.Printf("schema creation failed: %v\n", err)
			case created:
				ok.Println("Schema created.")
			default:
				ok.Println("Schema already existed.")
			}
		case "3":
			if err := c.manager.ApplyPendingChanges(ctx); err != nil {
				fail.Printf("migration failed: %v\n", err)
			} else {
				ok.Println("Schema is up to date.")
			}
		case "4":
			dir := scriptsDirFor(c.cfg)
			if err := c.runner.ExecuteScripts(ctx, dir); err != nil {
				fail.Printf("scripts failed: %v\n", err)
			} else {
				ok.Println("Scripts executed.")
			}
		case "5":
			c.seed(ctx, false)
		case "6":
			c.seed(ctx, true)
		case "0":
			return
		default:
			warn.Println("Invalid choice, try again.")
		}
	}
}

func (c *Console) seed(ctx context.Context, force bool) {
	if c.cfg.Database.PromptForSeeding {
		answer := strings.ToLower(c.prompt(fmt.Sprintf("Seed %d users worth of data? [y/N]", c.cfg.Database.SeedCount)))
		if answer != "y" && answer != "yes" {
			warn.Println("Seeding cancelled.")
			return
		}
	}
	res, err := c.manager.SeedIfNeeded(ctx, force, c.cfg.Database.SeedCount)
	if err != nil {
		fail.Printf("seeding failed: %v\n", err)
		return
	}
	if res == nil {
		warn.Println("Store already has data; seeding skipped.")
		return
	}
	ok.Printf("Seeded %d records.\n", res.Total())
}

func scriptsDirFor(cfg *config.Config) string {
	return cfg.Database.ScriptsDir + "/" + cfg.Database.Engine
}

func (c *Console) printStatistics(ctx context.Context) {
	stats := c.manager.Statistics(ctx)
	heading.Println("\n--- Statistics ---")
	if !stats.Accessible {
		fail.Println("Database is not accessible; nothing to report.")
		return
	}
	fmt.Printf("Users:            %d\n", stats.Users)
	fmt.Printf("User profiles:    %d\n", stats.Profiles)
	fmt.Printf("User sessions:    %d\n", stats.Sessions)
	fmt.Printf("Products:         %d\n", stats.Products)
	fmt.Printf("Product reviews:  %d\n", stats.Reviews)
	fmt.Printf("Inventory rows:   %d\n", stats.Inventories)
	fmt.Printf("Orders:           %d\n", stats.Orders)
	fmt.Printf("Order items:      %d\n", stats.OrderItems)
	fmt.Printf("Status history:   %d\n", stats.HistoryEntries)
	fmt.Printf("Total:            %d\n", stats.Total)
	fmt.Printf("Has data:         %t\n", stats.HasData)
}
