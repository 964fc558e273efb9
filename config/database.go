package config

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

func InitDB(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func RunMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			name VARCHAR(255) NOT NULL,
			totp_secret VARCHAR(255),
			totp_enabled BOOLEAN DEFAULT FALSE,
			email_verified BOOLEAN DEFAULT FALSE,
			is_alive BOOLEAN,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS user_groups (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			owner_id UUID UNIQUE REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS group_members (
			group_id UUID REFERENCES user_groups(id) ON DELETE CASCADE,
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			joined_at TIMESTAMP DEFAULT NOW(),
			PRIMARY KEY (group_id, user_id)
		)`,

		`CREATE TABLE IF NOT EXISTS invitations (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			group_id UUID REFERENCES user_groups(id) ON DELETE CASCADE,
			email VARCHAR(255) NOT NULL,
			status VARCHAR(50) DEFAULT 'pending',
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW(),
			UNIQUE(group_id, email)
		)`,

		`CREATE TABLE IF NOT EXISTS platforms (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			group_id UUID REFERENCES user_groups(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			website VARCHAR(500) NOT NULL,
			platform_type VARCHAR(10) NOT NULL,
			cred_email TEXT,
			cred_username TEXT,
			cred_password TEXT NOT NULL,
			cred_transaction_pin TEXT,
			cred_encoded BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW(),
			UNIQUE(group_id, name)
		)`,

		`CREATE TABLE IF NOT EXISTS investments (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			platform_id UUID REFERENCES platforms(id) ON DELETE CASCADE,
			plan_name VARCHAR(255) NOT NULL,
			return_on_investment NUMERIC(10,4) NOT NULL,
			nature VARCHAR(20) NOT NULL,
			is_still_open BOOLEAN DEFAULT TRUE,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW(),
			UNIQUE(platform_id, plan_name)
		)`,

		`CREATE TABLE IF NOT EXISTS investment_activities (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			investment_id UUID REFERENCES investments(id) ON DELETE CASCADE,
			amount NUMERIC(18,2) NOT NULL CHECK (amount >= 0),
			transaction_type VARCHAR(10) NOT NULL,
			currency VARCHAR(3) NOT NULL,
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS trackers (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			amount NUMERIC(18,2) NOT NULL CHECK (amount >= 0),
			label VARCHAR(255) NOT NULL,
			description TEXT,
			currency VARCHAR(3) NOT NULL,
			month VARCHAR(10) NOT NULL,
			year INTEGER NOT NULL,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS earnings (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			amount NUMERIC(18,2) NOT NULL CHECK (amount >= 0),
			currency VARCHAR(3) NOT NULL,
			pay_date DATE NOT NULL,
			month VARCHAR(10) NOT NULL,
			year INTEGER NOT NULL,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS wills (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			investment_id UUID UNIQUE REFERENCES investments(id) ON DELETE CASCADE,
			invitation_id UUID REFERENCES invitations(id) ON DELETE CASCADE,
			owner_id UUID REFERENCES users(id) ON DELETE CASCADE,
			assigned_id UUID REFERENCES users(id) ON DELETE SET NULL,
			is_claimed BOOLEAN DEFAULT FALSE,
			date_claimed DATE,
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS sessions (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			refresh_token VARCHAR(500) UNIQUE NOT NULL,
			expires_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_group_members_user_id ON group_members(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_invitations_email ON invitations(email)`,
		`CREATE INDEX IF NOT EXISTS idx_platforms_group_id ON platforms(group_id)`,
		`CREATE INDEX IF NOT EXISTS idx_investments_platform_id ON investments(platform_id)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_investment_id ON investment_activities(investment_id)`,
		`CREATE INDEX IF NOT EXISTS idx_trackers_user_id ON trackers(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_earnings_user_id ON earnings(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_wills_owner_id ON wills(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_wills_assigned_id ON wills(assigned_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	return nil
}
