// Copyright (c) 2025 Truth B Told Hub.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles driver selection, schema creation, and
constraint-error classification.

Two backends are supported behind database/sql: PostgreSQL (lib/pq)
for deployment and SQLite (modernc.org/sqlite) for development and
tests. The schema is written in the portable subset both accept: the
application writes every timestamp itself and nothing engine-specific
appears in the DDL.

The UNIQUE constraints declared here are not decoration - registration
and ballot casting use them as their atomic check-then-insert step.
IsUniqueViolation tells the components, across both drivers, that they
lost such a race rather than hit a storage fault.
*/
package db
