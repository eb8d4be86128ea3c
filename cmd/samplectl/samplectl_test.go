package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abelzeko/water-samples/internal/entities"
	"github.com/abelzeko/water-samples/internal/integration/excel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestUserAddAndList(t *testing.T) {
	db := filepath.Join(t.TempDir(), "users.db")

	out, err := run(t, "", "--db", db, "user", "add", "julian", "--name", "Julian", "--email", "julian@empresa.com", "--password", "clave")
	require.NoError(t, err)
	assert.Contains(t, out, "User julian saved")

	out, err = run(t, "secreto\n", "--db", db, "user", "add", "ana")
	require.NoError(t, err)
	assert.Contains(t, out, "User ana saved")

	out, err = run(t, "", "--db", db, "user", "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "ana"))
	assert.Contains(t, lines[2], "julian@empresa.com")
}

func TestHashPrintsVerifiableHash(t *testing.T) {
	out, err := run(t, "clave_mateo1\n", "hash", "--cost", "4")
	require.NoError(t, err)

	hash := strings.TrimSpace(out)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("clave_mateo1")))
}

func TestInspectExport(t *testing.T) {
	data, err := excel.Export([]entities.SampleRecord{{
		Code:       "E25-03001",
		Date:       time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC),
		Time:       "12:00",
		Device:     entities.DeviceHose,
		WaterType:  entities.WaterSurface,
		PH:         8.1,
		Chlorine:   0.3,
		SampleType: entities.SampleExternal,
	}})
	require.NoError(t, err)
	file := filepath.Join(t.TempDir(), excel.FileName)
	require.NoError(t, os.WriteFile(file, data, 0600))

	out, err := run(t, "", "inspect", file)
	require.NoError(t, err)
	assert.Contains(t, out, "E25-03001")
	assert.Contains(t, out, "8.10")
	assert.Contains(t, out, "1 samples")
}
