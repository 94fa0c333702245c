package dummydb

import (
	"sync"

	"github.com/qori-edu/backend/core/announce"
	"github.com/qori-edu/backend/core/commission"
	"github.com/qori-edu/backend/core/institution"
	"github.com/qori-edu/backend/core/record"
	"github.com/qori-edu/backend/core/tutoring"
	"github.com/qori-edu/backend/core/user"
)

// DB is an in-memory store with the same repository surface as the mongo
// store. It backs tests and local development.
type (
	DB struct {
		institution *institutionTable
		user        *userTable
		commission  *commissionTable
		tutoring    *tutoringTable
		record      *recordTable
		announce    *announceTable
	}

	institutionTable struct {
		sync.RWMutex
		table map[string]*institution.Institution
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	commissionTable struct {
		sync.RWMutex
		table map[string]*commission.Commission
	}

	tutoringTable struct {
		sync.RWMutex
		table map[string]*tutoring.Assignment
	}

	// recordTable keeps a second index on the natural key, mimicking the
	// unique index of the mongo store so the duplicate-key path behaves
	// the same.
	recordTable struct {
		sync.RWMutex
		table map[string]*record.Record
		byKey map[record.Key]string
	}

	announceTable struct {
		sync.RWMutex
		anns map[string]*announce.Announcement
		tuts map[string]*announce.TutoringAnnouncement
	}
)

func Open() (*DB, error) {
	db := &DB{
		institution: &institutionTable{table: make(map[string]*institution.Institution)},
		user:        &userTable{table: make(map[string]*user.User)},
		commission:  &commissionTable{table: make(map[string]*commission.Commission)},
		tutoring:    &tutoringTable{table: make(map[string]*tutoring.Assignment)},
		record: &recordTable{
			table: make(map[string]*record.Record),
			byKey: make(map[record.Key]string),
		},
		announce: &announceTable{
			anns: make(map[string]*announce.Announcement),
			tuts: make(map[string]*announce.TutoringAnnouncement),
		},
	}
	return db, nil
}
