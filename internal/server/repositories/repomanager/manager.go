package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/campuslink/internal/dbx"
	"github.com/dmitrijs2005/campuslink/internal/server/repositories/announcements"
	"github.com/dmitrijs2005/campuslink/internal/server/repositories/complaints"
	"github.com/dmitrijs2005/campuslink/internal/server/repositories/lostfound"
	"github.com/dmitrijs2005/campuslink/internal/server/repositories/timetable"
	"github.com/dmitrijs2005/campuslink/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a *sql.DB or to a *sql.Tx,
// so services can run several of them in one transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Announcements(db dbx.DBTX) announcements.Repository
	Complaints(db dbx.DBTX) complaints.Repository
	LostFound(db dbx.DBTX) lostfound.Repository
	Timetable(db dbx.DBTX) timetable.Repository
}
