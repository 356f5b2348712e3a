package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testRoster = `
projects:
  - name: Shop bot
participants:
  - {name: Anna, telegram: anna, role: PM, slots: ["18:00"]}
  - {name: Boris, telegram: boris, role: ST, level: JR, slots: ["18:00"]}
  - {name: Vera, telegram: vera, role: ST, level: BG, slots: ["18:00"]}
  - {name: Gleb, telegram: gleb, role: ST, level: BG, slots: ["09:00"]}
constraints:
  - {first: boris, second: vera, kind: together}
`

type session struct {
	t  *testing.T
	db string
}

func newSession(t *testing.T) *session {
	t.Setenv("TEAMS_CONFIG_PATH", "")
	dir := t.TempDir()
	rosterPath := filepath.Join(dir, "roster.yaml")
	require.NoError(t, os.WriteFile(rosterPath, []byte(testRoster), 0o600))

	s := &session{t: t, db: filepath.Join(dir, "teams.db")}
	s.run("import", rosterPath)
	return s
}

func (s *session) run(args ...string) string {
	s.t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), append([]string{"--db", s.db}, args...), &stdout, &stderr)
	require.NoError(s.t, err, stderr.String())
	return stdout.String()
}

func TestCLI_DistributeAndCancel(t *testing.T) {
	s := newSession(t)

	out := s.run("distribute", "--notify")
	require.Contains(t, out, "formed 1 teams with 2 students; 1 students unallocated")
	require.Contains(t, out, "skipped 3 without a linked chat")

	out = s.run("teams")
	require.Contains(t, out, "Shop bot")
	require.Contains(t, out, "@boris, @vera")

	out = s.run("unallocated")
	require.Contains(t, out, "1 students unallocated.")
	require.Contains(t, out, "@gleb")
	require.Contains(t, out, "Managers free at: none")

	out = s.run("cancel")
	require.Contains(t, out, "removed 1 teams, released 3 slots")
	require.Contains(t, s.run("cancel"), "Nothing to cancel.")
	require.Contains(t, s.run("teams"), "No teams formed.")

	out = s.run("activity", "--limit", "10")
	require.Contains(t, out, "distribution_cancelled")
	require.Contains(t, out, "roster_imported")
	require.Contains(t, out, " cli ")
}

func TestCLI_JSONOutput(t *testing.T) {
	s := newSession(t)
	s.run("distribute")

	var teams []struct {
		Students []struct {
			TelegramUsername string `json:"telegram_username"`
		} `json:"students"`
	}
	require.NoError(t, json.Unmarshal([]byte(s.run("--json", "teams")), &teams))
	require.Len(t, teams, 1)
	require.Len(t, teams[0].Students, 2)

	var key map[string]string
	require.NoError(t, json.Unmarshal([]byte(s.run("--json", "apikey", "create", "coordinator")), &key))
	require.Equal(t, "coordinator", key["name"])
	require.NotEmpty(t, key["token"])
}

func TestCLI_Usage(t *testing.T) {
	t.Setenv("TEAMS_CONFIG_PATH", "")
	var stdout, stderr bytes.Buffer

	require.ErrorIs(t, run(context.Background(), nil, &stdout, &stderr), errUsage)
	require.Contains(t, stderr.String(), "Commands:")

	stderr.Reset()
	db := filepath.Join(t.TempDir(), "teams.db")
	require.ErrorIs(t, run(context.Background(), []string{"--db", db, "shuffle"}, &stdout, &stderr), errUsage)
	require.Contains(t, stderr.String(), `unknown command "shuffle"`)

	err := run(context.Background(), []string{"--db", db, "notify", "everyone"}, &stdout, &stderr)
	require.ErrorContains(t, err, "notify needs teams or unallocated")
}
