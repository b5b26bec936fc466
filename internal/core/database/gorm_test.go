package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMySQLDSN(t *testing.T) {
	cases := []struct {
		name, in, user, pass, want string
	}{
		{"empty", "", "", "", ""},
		{"native dsn untouched", "u:p@tcp(db:3306)/estate?parseTime=true", "x", "y", "u:p@tcp(db:3306)/estate?parseTime=true"},
		{"url form", "mysql://u:p@db:3306/estate", "", "", "u:p@tcp(db:3306)/estate?charset=utf8mb4&parseTime=true"},
		{"override credentials", "jdbc:mysql://db:3306/estate?user=a&password=b", "root", "secret", "root:secret@tcp(db:3306)/estate?charset=utf8mb4&parseTime=true"},
		{"ssl skip verify", "mysql://u@db/estate?useSSL=skip-verify&serverTimezone=UTC", "", "", "u@tcp(db)/estate?charset=utf8mb4&loc=UTC&parseTime=true&tls=skip-verify"},
		{"jdbc params", "mysql://u@db/estate?useSSL=false&characterEncoding=latin1&useUnicode=true", "", "", "u@tcp(db)/estate?charset=latin1&parseTime=true&tls=false"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, normalizeMySQLDSN(tc.in, tc.user, tc.pass))
		})
	}
}

func TestMaskDSN(t *testing.T) {
	assert.Equal(t, "root:****@tcp(db:3306)/estate", maskDSN("root:s3cr@t@tcp(db:3306)/estate"))
	assert.Equal(t, "root@tcp(db)/estate", maskDSN("root@tcp(db)/estate"))
	assert.Equal(t, "estate.db", maskDSN("estate.db"))
}

func TestNewGorm_SQLiteMemoryUsesOneConn(t *testing.T) {
	db, err := NewGorm(Opts{Driver: "sqlite", DSN: ":memory:", MaxOpenConns: 10, LogLevel: "silent"})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestNewGorm_UnsupportedDriver(t *testing.T) {
	_, err := NewGorm(Opts{Driver: "oracle"})
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}
