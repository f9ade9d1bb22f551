package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"quill/app/config"
	"quill/app/schema"
	"quill/app/store"

	"go.uber.org/zap"
)

// HandleCommand runs a serve or database subcommand and returns the exit
// code.
func HandleCommand(args []string) int {
	if len(args) < 1 {
		printHelp()
		return 1
	}

	cmd := args[0]
	if cmd == "help" {
		printHelp()
		return 0
	}

	cfg, err := loadConfig()
	if err != nil {
		printf("Error: %v\n", err)
		return 1
	}

	switch cmd {
	case "serve":
		return serve(cfg, args[1:])
	case "clean":
		return clean(cfg)
	case "init":
		return initDb(cfg)
	case "backup":
		return backup(cfg)
	case "restore":
		if len(args) < 2 {
			printf("Error: backup file path required for restore\n")
			return 1
		}
		return restore(cfg, args[1])
	default:
		printf("Unknown command: %s\n\n", cmd)
		printHelp()
		return 1
	}
}

func printHelp() {
	helpText := `Usage: quill db <command>

Commands:
  init                            Initialize a new empty database
  clean                           Remove the database
  backup                          Create a backup of the database (badger)
  restore <file>                  Restore the database from a backup (badger)
  help                            Display this help message

The database is selected with QUILL_STORE_DRIVER, QUILL_BADGER_PATH and
QUILL_SQLITE_DSN.
`
	fmt.Fprintln(stdout(), helpText)
}

func openStore(cfg *config.Config) (*store.Store, error) {
	dep, err := cfg.Dependent()
	if err != nil {
		return nil, err
	}
	return store.Open(context.Background(), cfg.Store, schema.Default(dep), zap.NewNop())
}

// clean removes the database.
func clean(cfg *config.Config) int {
	path, ok := dataPath(cfg)
	if !ok {
		printf("The %s driver keeps no data on disk\n", cfg.Store.Driver)
		return 0
	}
	if !exists(path) {
		printf("Database is already clean (does not exist)\n")
		return 0
	}

	if !confirm("Are you sure you want to clean the database? This cannot be undone.") {
		printf("Operation cancelled\n")
		return 1
	}

	if err := os.RemoveAll(path); err != nil {
		printf("Failed to clean database: %v\n", err)
		return 1
	}
	// sqlite sidecar files
	os.Remove(path + "-wal")
	os.Remove(path + "-shm")

	printf("Database cleaned successfully\n")
	return 0
}

// initDb initializes a new empty database.
func initDb(cfg *config.Config) int {
	path, ok := dataPath(cfg)
	if !ok {
		printf("The %s driver keeps no data on disk\n", cfg.Store.Driver)
		return 0
	}
	if exists(path) {
		printf("Database already exists. Use 'clean' first if you want to reinitialize.\n")
		return 0
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		printf("Failed to create database directory: %v\n", err)
		return 1
	}

	st, err := openStore(cfg)
	if err != nil {
		printf("Failed to initialize database: %v\n", err)
		return 1
	}
	defer st.Close()

	printf("Database initialized successfully\n")
	return 0
}

// backup writes a full copy of the database into the backup directory.
func backup(cfg *config.Config) int {
	if cfg.Store.Driver != config.DriverBadger {
		printf("Backup is only supported by the badger driver\n")
		return 1
	}
	if !exists(cfg.Store.BadgerPath) {
		printf("No database exists to backup\n")
		return 1
	}
	if err := os.MkdirAll(cfg.Store.BackupDir, 0o755); err != nil {
		printf("Failed to create backup directory: %v\n", err)
		return 1
	}

	st, err := openStore(cfg)
	if err != nil {
		printf("Failed to open database: %v\n", err)
		return 1
	}
	defer st.Close()

	backupFile := filepath.Join(cfg.Store.BackupDir, fmt.Sprintf("backup_%d.db", time.Now().UnixNano()))
	f, err := os.Create(backupFile)
	if err != nil {
		printf("Failed to create backup file: %v\n", err)
		return 1
	}
	defer f.Close()

	if err := st.Backup(f); err != nil {
		printf("Failed to backup database: %v\n", err)
		return 1
	}

	printf("Database backed up successfully to %s\n", backupFile)
	return 0
}

// restore replaces the database with the contents of backupFile.
func restore(cfg *config.Config, backupFile string) int {
	if cfg.Store.Driver != config.DriverBadger {
		printf("Restore is only supported by the badger driver\n")
		return 1
	}

	fi, err := os.Stat(backupFile)
	if err != nil {
		printf("Backup file does not exist: %s\n", backupFile)
		return 1
	}
	if fi.Size() == 0 {
		printf("Backup file is empty: %s\n", backupFile)
		return 1
	}

	if exists(cfg.Store.BadgerPath) {
		if !confirm("Existing database found. Do you want to replace it?") {
			printf("Operation cancelled\n")
			return 1
		}
		if err := os.RemoveAll(cfg.Store.BadgerPath); err != nil {
			printf("Failed to remove existing database: %v\n", err)
			return 1
		}
	}

	st, err := openStore(cfg)
	if err != nil {
		printf("Failed to open database: %v\n", err)
		return 1
	}
	defer st.Close()

	f, err := os.Open(backupFile)
	if err != nil {
		printf("Failed to open backup file: %v\n", err)
		return 1
	}
	defer f.Close()

	if err := st.Restore(f); err != nil {
		printf("Failed to restore database: %v\n", err)
		return 1
	}

	printf("Database restored successfully\n")
	return 0
}
