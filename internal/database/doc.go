// Package database provides the SQLite storage backend.
//
// The store persists two JSON documents (aggregate state and library
// index). With the sqlite backend each document is a row in the documents
// table instead of a file:
//
//	db, err := database.NewDatabase("./data/printingpress.db")
//	st := store.New(db.Document("state"), db.Document("library"), booksDir)
//
// Document implements store.Document; see interfaces/checks.go.
package database
