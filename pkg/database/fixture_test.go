package database

import "github.com/jjhbk/Devrang/internal/pkg/config"

func configFixture() config.DatabaseConfig {
	return config.DatabaseConfig{
		Driver:   config.DriverPostgres,
		Host:     "db",
		User:     "devrang",
		Password: "secret",
		DBName:   "devrang",
		Port:     "5432",
		SSLMode:  "disable",
		TimeZone: "Asia/Kolkata",
	}
}
