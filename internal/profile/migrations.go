package profile

const schema = `
CREATE TABLE IF NOT EXISTS listener_profiles (
    listener_id        TEXT PRIMARY KEY,
    surprise_tolerance INTEGER NOT NULL DEFAULT 2,
    updated_at         DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_profiles_updated ON listener_profiles(updated_at);
`
