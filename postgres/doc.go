// Package postgres provides a PrincipalProvider backed by a PostgreSQL
// users table via pgx.
//
// Architecture boundaries:
//   - This package only reads identity rows. It never verifies secrets
//     and never writes.
//   - Uniqueness violations are reported, not repaired: two rows for
//     one email is a store defect the gate must refuse to judge on.
package postgres
