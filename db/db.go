package db

import (
	"fmt"
	"log"

	"github.com/greenloophq/greenloop/config"
	"github.com/greenloophq/greenloop/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type GormDB struct {
	DB *gorm.DB
}

func GetDB(c *config.Config) *GormDB {
	gormDB := &GormDB{}
	gormDB.Init(c)
	return gormDB
}

func (g *GormDB) Init(c *config.Config) {
	g.DB = getPostgresDB(c)

	if err := Migrate(g.DB); err != nil {
		log.Fatalf("unable to run migrations: %v", err)
	}
}

func getPostgresDB(c *config.Config) *gorm.DB {
	log.Printf("Connecting to postgres: %s@%s:%d/%s", c.PostgresUser, c.PostgresHost, c.PostgresPort, c.PostgresDB)
	postgresDSN := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresPort)

	gormConfig := &gorm.Config{}
	if c.Env != "prod" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}
	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		DSN: postgresDSN,
	}), gormConfig)
	if err != nil {
		log.Fatal(err)
	}

	return gormDB
}

// Migrate runs the schema migrations and seeds the reward catalog.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Blacklist{},
		&models.Report{},
		&models.Reward{},
		&models.Transaction{},
		&models.CollectedWaste{},
		&models.Notification{},
	)
	if err != nil {
		return fmt.Errorf("migrations error: %v", err)
	}

	if err := SeedRewardCatalog(db); err != nil {
		return fmt.Errorf("seeding reward catalog error: %v", err)
	}

	return nil
}

// SeedRewardCatalog inserts the default redeemable rewards. Catalog rows
// carry CatalogUserID and their Points field is the redemption cost.
func SeedRewardCatalog(db *gorm.DB) error {
	catalog := []models.Reward{
		{
			UserID:         models.CatalogUserID,
			Name:           "Reusable Tote Bag",
			Points:         100,
			IsAvailable:    true,
			Description:    "A sturdy canvas tote for plastic-free shopping",
			CollectionInfo: "Pick up at any partner recycling center with your redemption code",
		},
		{
			UserID:         models.CatalogUserID,
			Name:           "Community Garden Voucher",
			Points:         250,
			IsAvailable:    true,
			Description:    "One month of plot access at a community garden",
			CollectionInfo: "Voucher code is emailed after redemption",
		},
		{
			UserID:         models.CatalogUserID,
			Name:           "Eco Store Gift Card",
			Points:         500,
			IsAvailable:    true,
			Description:    "Gift card redeemable at participating eco stores",
			CollectionInfo: "Card details are emailed after redemption",
		},
	}

	for _, reward := range catalog {
		err := db.FirstOrCreate(&reward, models.Reward{
			UserID: models.CatalogUserID,
			Name:   reward.Name,
		}).Error
		if err != nil {
			return err
		}
	}

	return nil
}
