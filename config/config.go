package config

import (
	"fmt"
	"net/url"
)

type DbConfig interface {
	GetConnectionString() string
	Address() string
}

// PostgresConfig represents the configuration needed to connect to a PostgreSQL database
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

func (pc *PostgresConfig) GetConnectionString() string {
	sslMode := pc.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		pc.Host, pc.Port, pc.User, pc.Password, pc.DBName, sslMode)
}

// Address is the connection target without credentials, safe for logs.
func (pc *PostgresConfig) Address() string {
	u := url.URL{Scheme: "postgres", Host: pc.Host + ":" + pc.Port, Path: pc.DBName}
	return u.String()
}
