package repository

// SchemaSQL creates the directory tables when they are missing.
// people.department_id has no foreign key: a record may reference a department
// that no longer exists and is then shown as "Unknown".
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS departments (
    id   SERIAL PRIMARY KEY,
    name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS people (
    id            SERIAL PRIMARY KEY,
    name          TEXT NOT NULL,
    phone         TEXT NOT NULL,
    department_id INTEGER NOT NULL,
    street        TEXT NOT NULL DEFAULT '',
    city          TEXT NOT NULL DEFAULT '',
    state         TEXT NOT NULL DEFAULT '',
    zip           TEXT NOT NULL DEFAULT '',
    country       TEXT NOT NULL DEFAULT ''
);
`

const ListPeopleSQL = `
SELECT id, name, phone, department_id, street, city, state, zip, country
FROM people
ORDER BY id;
`

const GetPersonSQL = `
SELECT id, name, phone, department_id, street, city, state, zip, country
FROM people
WHERE id = $1;
`

const InsertPersonSQL = `
INSERT INTO people (name, phone, department_id, street, city, state, zip, country)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id;
`

const UpdatePersonSQL = `
UPDATE people
SET name = $1, phone = $2, department_id = $3, street = $4, city = $5, state = $6, zip = $7, country = $8
WHERE id = $9;
`

const DeletePersonSQL = `DELETE FROM people WHERE id = $1;`

const ListDepartmentsSQL = `SELECT id, name FROM departments ORDER BY id;`
