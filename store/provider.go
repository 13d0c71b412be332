package store

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Models lists everything the database provider should auto-migrate.
func Models() []any {
	return []any{&Account{}, &ResetCode{}}
}

func ProvideAccountStore(db *gorm.DB) AccountStore {
	return NewGormAccountStore(db)
}

func ProvideResetCodeStore(db *gorm.DB) ResetCodeStore {
	return NewGormResetCodeStore(db)
}

var Module = fx.Options(
	fx.Provide(ProvideAccountStore),
	fx.Provide(ProvideResetCodeStore),
)
