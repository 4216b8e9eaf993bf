// Package postgres provides the PostgreSQL-backed implementation of
// authcore.UserStore, using database/sql over the pgx stdlib driver, with
// schema migrations embedded and applied via goose.
package postgres
