package config

// DefaultDatabasePath is the default path for the local embedded store.
const DefaultDatabasePath = "./mymediaverse.db"
