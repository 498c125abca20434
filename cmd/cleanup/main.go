package main

import (
	"flag"
	"log"

	"github.com/fattern/fattern-backend/internal"
	"github.com/fattern/fattern-backend/internal/config"
	"github.com/fattern/fattern-backend/internal/utils"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "Show what would be updated without making changes")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	if err := internal.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer internal.CloseDB()

	if *dryRun {
		log.Println("Running in DRY RUN mode - no changes will be made")
		if err := utils.CleanupAssetPathsDryRun(internal.DB); err != nil {
			log.Fatal("Failed to run dry run:", err)
		}
	} else {
		log.Println("Normalizing template asset paths...")
		if err := utils.CleanupAssetPaths(internal.DB); err != nil {
			log.Fatal("Failed to cleanup asset paths:", err)
		}
		log.Println("Cleanup completed successfully!")
	}
}
