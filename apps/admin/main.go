package main

import (
	"context"
	"log"
	"os"

	"github.com/qori-edu/backend/core"
	"github.com/qori-edu/backend/core/institution"
	"github.com/qori-edu/backend/core/user"
	mongodb "github.com/qori-edu/backend/storage/database/mongo"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// set up DB
	db, err := mongodb.Open(conf)
	errAndDie(err)
	defer db.Close(context.Background())

	// start CLI
	cli := commandLine{
		instSvc:           institution.NewService(mongodb.NewInstitutionRepository(db)),
		usrSvc:            user.NewService(mongodb.NewUserRepository(db)),
		ensureIndexesFunc: db.EnsureIndexes,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
