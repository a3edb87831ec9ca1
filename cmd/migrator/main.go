package main

import (
	"flag"
	"fmt"

	"github.com/GintGld/chat-envboot/internal/lib/migrator"
)

func main() {
	var storagePath, migrationsTable string
	var down bool

	flag.StringVar(&storagePath, "storage-path", "", "path to storage")
	flag.StringVar(&migrationsTable, "migrations-table", migrator.DefaultTable, "name of migrations table")
	flag.BoolVar(&down, "down", false, "roll back all migrations")
	flag.Parse()

	if storagePath == "" {
		panic("storage-path is required")
	}

	if down {
		if err := migrator.Down(storagePath, migrationsTable); err != nil {
			panic(err)
		}
		fmt.Println("migrations rolled back")
		return
	}

	applied, err := migrator.Up(storagePath, migrationsTable)
	if err != nil {
		panic(err)
	}
	if !applied {
		fmt.Println("no migrations to apply")
		return
	}

	fmt.Println("migrations applied")
}
