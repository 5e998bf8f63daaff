// crmadmin adds users and mints invitations directly in the database.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/badoux/checkmail"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/charleshuang3/teamcrm/internal/config"
	"github.com/charleshuang3/teamcrm/internal/gormw"
	"github.com/charleshuang3/teamcrm/internal/handlers/api"
	"github.com/charleshuang3/teamcrm/internal/models"
	"github.com/charleshuang3/teamcrm/internal/storage"
)

var (
	configPath *string

	addUser = flag.Bool("add-user", false, "Add a user, needs -id and -email")
	invite  = flag.Bool("invite", false, "Invite an email to a team, needs -team, -email and -permissions")

	userID      = flag.String("id", "", "User ID from the auth provider")
	email       = flag.String("email", "", "Email")
	name        = flag.String("name", "", "User name")
	teamID      = flag.String("team", "", "Team ID")
	permissions = flag.String("permissions", "", "Comma separated permissions")
)

func main() {
	_ = godotenv.Load()

	configPath = flag.String("c", os.Getenv("CONFIG_PATH"), "Path to configuration file")
	flag.Parse()
	if *configPath == "" {
		log.Fatal().Msg("Config path must be provided via CONFIG_PATH env var or -c flag")
	}

	cfg := config.LoadAdminConfig(*configPath)

	db, err := gormw.Open(&cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	switch {
	case *addUser:
		runAddUser(db)
	case *invite:
		runInvite(db, cfg)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func normalizedEmail() string {
	e := strings.ToLower(strings.TrimSpace(*email))
	if err := checkmail.ValidateFormat(e); err != nil {
		log.Fatal().Err(err).Msgf("Invalid email %q", *email)
	}
	return e
}

func runAddUser(db *gormw.DB) {
	if *userID == "" {
		log.Fatal().Msg("-id is required")
	}

	user := &models.User{
		ID:    *userID,
		Email: normalizedEmail(),
		Name:  *name,
	}
	if err := storage.CreateUser(db, user); err != nil {
		log.Fatal().Err(err).Msg("Failed to add user")
	}
	fmt.Printf("added user %s <%s>\n", user.ID, user.Email)
}

func runInvite(db *gormw.DB, cfg *config.Config) {
	if *teamID == "" {
		log.Fatal().Msg("-team is required")
	}

	perms := models.SplitPermissions(*permissions)
	if len(perms) == 0 || !models.VerifyPermissions(perms) {
		log.Fatal().Msgf("Invalid permissions %q", *permissions)
	}

	team, err := storage.GetTeamByID(db, *teamID)
	if err != nil {
		log.Fatal().Err(err).Msgf("Team %s not found", *teamID)
	}

	inv := &models.Invitation{
		ID:          storage.NewID(),
		Token:       storage.NewToken(),
		Email:       normalizedEmail(),
		TeamID:      team.ID,
		Permissions: models.JoinPermissions(perms),
		Status:      models.InvitationPending,
		ExpiresAt:   time.Now().Add(time.Duration(cfg.Invitation.TTLHours) * time.Hour),
	}
	if err := storage.AddInvitation(db, inv); err != nil {
		log.Fatal().Err(err).Msg("Failed to add invitation")
	}

	fmt.Printf("invited %s to %s, expires at %s\n", inv.Email, team.Name, inv.ExpiresAt.Format(time.RFC3339))
	fmt.Println(api.InviteURL(cfg.Invitation.BaseURL, inv.Token))
}
