package infrastructure

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"emporium/internal/commerce/domain"
)

// batch separator used by SQL Server style scripts; harmless for files
// without it
var goSeparator = regexp.MustCompile(`(?im)^\s*GO\s*$`)

// ScriptRunner executes the SQL files that create the external database
// objects (views, functions, stored procedures). The objects' internals are
// opaque to the application; only their call contracts matter.
type ScriptRunner struct {
	db     *gorm.DB
	logger zerolog.Logger
}

func NewScriptRunner(db *gorm.DB) *ScriptRunner {
	return &ScriptRunner{db: db, logger: zlog.With().Str("component", "script_runner").Logger()}
}

// ExecuteScripts runs every *.sql file under dir in name order.
func (s *ScriptRunner) ExecuteScripts(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Warn().Str("dir", dir).Msg("scripts directory not found")
			return nil
		}
		return errors.Wrapf(err, "read scripts dir %s", dir)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		s.logger.Warn().Str("dir", dir).Msg("no sql scripts found")
		return nil
	}

	s.logger.Info().Int("count", len(files)).Str("dir", dir).Msg("executing database scripts")
	for _, f := range files {
		if err := s.ExecuteScriptFile(ctx, f); err != nil {
			return err
		}
	}
	return nil
}

// ExecuteScriptFile runs one script, batch by batch. Batches whose object is
// already in place are skipped; any other failure aborts the file.
func (s *ScriptRunner) ExecuteScriptFile(ctx context.Context, path string) error {
	name := filepath.Base(path)
	raw, err := os.ReadFile(path)
	if err != nil {
		return &domain.ScriptExecutionError{Script: name, Err: err}
	}
	if strings.TrimSpace(string(raw)) == "" {
		s.logger.Warn().Str("script", name).Msg("script file is empty")
		return nil
	}

	for _, batch := range goSeparator.Split(string(raw), -1) {
		if strings.TrimSpace(batch) == "" {
			continue
		}
		if err := s.db.WithContext(ctx).Exec(batch).Error; err != nil {
			if domain.IsBenignExists(err) {
				s.logger.Debug().Str("script", name).Msg("object already exists, skipping batch")
				continue
			}
			return &domain.ScriptExecutionError{Script: name, Err: err}
		}
	}
	s.logger.Info().Str("script", name).Msg("script executed")
	return nil
}

// ShouldExecuteScripts probes for the first view; when it is missing the
// scripts have not been run against this store yet.
func (s *ScriptRunner) ShouldExecuteScripts(ctx context.Context) (bool, error) {
	var probe string
	switch s.db.Dialector.Name() {
	case "mysql":
		probe = "SELECT COUNT(*) FROM information_schema.views WHERE table_name = 'vw_UserProfileSummary'"
	case "postgres":
		probe = "SELECT COUNT(*) FROM information_schema.views WHERE table_name = 'vw_userprofilesummary'"
	case "sqlite":
		probe = "SELECT COUNT(*) FROM sqlite_master WHERE type = 'view' AND name = 'vw_UserProfileSummary'"
	default:
		return false, errors.Errorf("unsupported dialect %q", s.db.Dialector.Name())
	}
	var n int64
	if err := s.db.WithContext(ctx).Raw(probe).Scan(&n).Error; err != nil {
		return false, errors.Wrap(err, "probe views")
	}
	return n == 0, nil
}
