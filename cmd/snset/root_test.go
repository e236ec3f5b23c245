package main

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/conn-castle/snset/internal/credentials"
	"github.com/conn-castle/snset/internal/prompt"
	"github.com/conn-castle/snset/internal/servicenow"
	"github.com/conn-castle/snset/internal/updateset"
)

// instanceServer fakes two instances: nyudev holds A and B, nyu holds A.
// committed controls whether B is found in sys_remote_update_set.
type instanceServer struct {
	*httptest.Server
	committed bool

	mu      sync.Mutex
	queries []string
}

func newInstanceServer(t *testing.T, committed bool) *instanceServer {
	t.Helper()
	s := &instanceServer{committed: committed}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

func (s *instanceServer) serve(w http.ResponseWriter, req *http.Request) {
	query := req.URL.Query().Get("sysparm_query")
	s.mu.Lock()
	s.queries = append(s.queries, req.URL.Path+"?"+query)
	s.mu.Unlock()

	user, pass, ok := req.BasicAuth()
	if !ok || user != "admin" || pass != "secret" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch {
	case req.URL.Path == "/nyudev/api/now/table/sys_update_set" && query == "state=complete":
		_, _ = fmt.Fprint(w, `{"result":[{"name":"A"},{"name":"B"}]}`)
	case req.URL.Path == "/nyu/api/now/table/sys_update_set" && query == "state=complete":
		_, _ = fmt.Fprint(w, `{"result":[{"name":" a "}]}`)
	case strings.HasSuffix(req.URL.Path, "/sys_remote_update_set"):
		if s.committed {
			_, _ = fmt.Fprint(w, `{"result":[{"name":"B","state":"Committed","commit_date":"2021-05-08 18:39:00","sys_updated_by":{"display_value":"Alex B","link":"https://x"}}]}`)
			return
		}
		_, _ = fmt.Fprint(w, `{"result":[]}`)
	case strings.Contains(query, "installed_fromISEMPTY"):
		_, _ = fmt.Fprint(w, `{"result":[{"name":"B","state":"complete","sys_updated_on":"2021-05-09 08:00:00"}]}`)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (s *instanceServer) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queries)
}

// writeConfig points the allow-list at url and returns the config path.
func writeConfig(t *testing.T, url string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	content := fmt.Sprintf("[servicenow]\ninstances = [\"nyu\", \"nyudev\"]\nbase_url = %q\n", url+"/%s")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func withEnv(t *testing.T, env map[string]string) {
	t.Helper()
	orig := lookupEnv
	lookupEnv = func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	t.Cleanup(func() { lookupEnv = orig })
}

func withCredentials(t *testing.T) {
	t.Helper()
	withEnv(t, map[string]string{credentials.UserEnv: "admin", credentials.PasswordEnv: "secret"})
}

type fakeConfirmer struct {
	interactive bool
	answer      bool
	err         error
	titles      []string
}

func (f *fakeConfirmer) Interactive() bool { return f.interactive }

func (f *fakeConfirmer) Confirm(title string, defaultValue bool) (bool, error) {
	f.titles = append(f.titles, title)
	return f.answer, f.err
}

func withConfirmer(t *testing.T, c prompt.Confirmer) {
	t.Helper()
	orig := newConfirmer
	newConfirmer = func() prompt.Confirmer { return c }
	t.Cleanup(func() { newConfirmer = orig })
}

func runSnset(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := execute(append([]string{"snset"}, args...), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func baseArgs(t *testing.T, srv *instanceServer) (string, []string) {
	t.Helper()
	out := filepath.Join(t.TempDir(), "report")
	return out + ".xlsx", []string{
		"-s", "nyudev", "-t", "nyu",
		"-f", out,
		"-c", writeConfig(t, srv.URL),
		"--env-file", filepath.Join(t.TempDir(), "missing.env"),
	}
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	return rows
}

func TestRoot_RequiredFlags(t *testing.T) {
	srv := newInstanceServer(t, true)
	withCredentials(t)
	cfg := writeConfig(t, srv.URL)

	_, _, err := runSnset(t, "-t", "nyu", "-c", cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"source"`)

	_, _, err = runSnset(t, "--source", "nyudev", "-c", cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"target"`)

	assert.Zero(t, srv.count())
}

func TestRoot_CommittedSet(t *testing.T) {
	srv := newInstanceServer(t, true)
	withCredentials(t)
	path, args := baseArgs(t, srv)

	stdout, _, err := runSnset(t, args...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Retrieved source sets: 2")
	assert.Contains(t, stdout, "Retrieved target sets: 1")
	assert.Contains(t, stdout, "Success!")

	rows := readRows(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"name", "state", "commit_date", "sys_updated_by"}, rows[0])
	assert.Equal(t, []string{"B", "Committed", "2021-05-08 18:39:00", "Alex B"}, rows[1])

	for _, q := range srv.queries {
		assert.NotContains(t, q, "installed_fromISEMPTY")
	}
}

func TestRoot_NewSet(t *testing.T) {
	srv := newInstanceServer(t, false)
	withCredentials(t)
	path, args := baseArgs(t, srv)

	_, _, err := runSnset(t, args...)
	require.NoError(t, err)

	rows := readRows(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"name", "state", "sys_updated_on"}, rows[0])
	assert.Equal(t, []string{"B", "complete", "2021-05-09 08:00:00"}, rows[1])
	assert.Contains(t, srv.queries[len(srv.queries)-1], "nameINB^installed_fromISEMPTY")
}

func TestRoot_Quiet(t *testing.T) {
	srv := newInstanceServer(t, true)
	withCredentials(t)
	_, args := baseArgs(t, srv)

	stdout, _, err := runSnset(t, append(args, "-q")...)
	require.NoError(t, err)
	assert.Equal(t, "Success!", strings.TrimSpace(stdout))
}

func TestRoot_InvalidInstance(t *testing.T) {
	srv := newInstanceServer(t, true)
	withCredentials(t)

	_, _, err := runSnset(t, "-s", "prod", "-t", "nyu", "-c", writeConfig(t, srv.URL))
	require.ErrorIs(t, err, servicenow.ErrInvalidInstance)
	assert.Zero(t, srv.count())
}

func TestRoot_MissingCredentials(t *testing.T) {
	srv := newInstanceServer(t, true)
	withEnv(t, map[string]string{credentials.UserEnv: "admin"})
	_, args := baseArgs(t, srv)

	_, _, err := runSnset(t, args...)
	require.ErrorIs(t, err, credentials.ErrMissing)
	assert.Zero(t, srv.count())
}

func TestRoot_CredentialsFromEnvFile(t *testing.T) {
	srv := newInstanceServer(t, true)
	withEnv(t, map[string]string{})
	path, args := baseArgs(t, srv)
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("SN_USER_NAME=admin\nSN_PASSWORD='secret'\n"), 0o600))

	_, _, err := runSnset(t, append(args, "--env-file", envFile)...)
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestRoot_NothingMissingFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		_, _ = fmt.Fprint(w, `{"result":[{"name":"A"}]}`)
	}))
	defer srv.Close()
	withCredentials(t)
	out := filepath.Join(t.TempDir(), "report")

	stdout, _, err := runSnset(t, "-s", "nyudev", "-t", "nyu", "-f", out, "-c", writeConfig(t, srv.URL),
		"--env-file", filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "There was an error writing the spreadsheet")
	assert.Contains(t, stdout, "No update sets in nyudev are missing from nyu")
	assert.NoFileExists(t, out+".xlsx")
}

func TestRoot_UpstreamErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	withCredentials(t)

	_, _, err := runSnset(t, "-s", "nyudev", "-t", "nyu", "-c", writeConfig(t, srv.URL),
		"--env-file", filepath.Join(t.TempDir(), "missing.env"), "-f", filepath.Join(t.TempDir(), "out"))
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, servicenow.StatusCode(err))
}

func TestRoot_OverwriteDeclined(t *testing.T) {
	srv := newInstanceServer(t, true)
	withCredentials(t)
	path, args := baseArgs(t, srv)
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))
	confirmer := &fakeConfirmer{interactive: true, answer: false}
	withConfirmer(t, confirmer)

	_, _, err := runSnset(t, args...)
	require.ErrorIs(t, err, ErrOverwriteDeclined)
	require.Len(t, confirmer.titles, 1)
	assert.Contains(t, confirmer.titles[0], path)
	assert.Zero(t, srv.count())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
}

func TestRoot_OverwriteAccepted(t *testing.T) {
	srv := newInstanceServer(t, true)
	withCredentials(t)
	path, args := baseArgs(t, srv)
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))
	withConfirmer(t, &fakeConfirmer{interactive: true, answer: true})

	_, _, err := runSnset(t, args...)
	require.NoError(t, err)
	assert.Len(t, readRows(t, path), 2)
}

func TestRoot_OverwriteConfirmError(t *testing.T) {
	srv := newInstanceServer(t, true)
	withCredentials(t)
	path, args := baseArgs(t, srv)
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))
	withConfirmer(t, &fakeConfirmer{interactive: true, err: errors.New("tty gone")})

	_, _, err := runSnset(t, args...)
	require.EqualError(t, err, "tty gone")
}

func TestRoot_OverwriteWithoutPrompt(t *testing.T) {
	tests := []struct {
		name      string
		extra     []string
		confirmer *fakeConfirmer
	}{
		{name: "force", extra: []string{"--force"}, confirmer: &fakeConfirmer{interactive: true}},
		{name: "non-interactive", confirmer: &fakeConfirmer{interactive: false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newInstanceServer(t, true)
			withCredentials(t)
			path, args := baseArgs(t, srv)
			require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))
			withConfirmer(t, tt.confirmer)

			_, _, err := runSnset(t, append(args, tt.extra...)...)
			require.NoError(t, err)
			assert.Empty(t, tt.confirmer.titles)
			assert.Len(t, readRows(t, path), 2)
		})
	}
}

func TestRoot_WriteError(t *testing.T) {
	srv := newInstanceServer(t, true)
	withCredentials(t)
	_, args := baseArgs(t, srv)
	orig := writeSpreadsheet
	writeSpreadsheet = func(_ []updateset.Record, _ string) (string, error) { return "", errors.New("disk full") }
	t.Cleanup(func() { writeSpreadsheet = orig })

	_, _, err := runSnset(t, args...)
	require.Error(t, err)
	assert.Equal(t, "There was an error writing the spreadsheet: disk full", err.Error())
}

func TestRoot_ConfigErrors(t *testing.T) {
	withCredentials(t)
	dir := t.TempDir()

	_, _, err := runSnset(t, "-s", "nyudev", "-t", "nyu", "-c", filepath.Join(dir, "missing.toml"))
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[servicenow]\nbogus = 1\n"), 0o600))
	_, _, err = runSnset(t, "-s", "nyudev", "-t", "nyu", "-c", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), bad)
}
