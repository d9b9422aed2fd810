package msnlog

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"msngraph/internal/chat"
	pkgerrors "msngraph/pkg/errors"
)

// Log files are named after the contact: "bob@example.com.xml",
// "bob@example.com (1).xml", "alice@example.com.html". The leading token
// up to the first space (or the extension) is the contact identifier.
var logFileRe = regexp.MustCompile(`(?i)^([^ ]+?)( .*)?\.(xml|html?)$`)

const parseWorkers = 8

// LoadDirectory reads every chat log export under dir and returns the
// normalized dataset. Files are parsed concurrently; everything from the
// merge onward is a single deterministic pass. A broken file among good
// ones is logged and skipped; an unreadable directory or a directory
// yielding no parsable logs at all is an error.
func LoadDirectory(ctx context.Context, dir, mainUser string, log *zap.Logger) (*chat.Dataset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, pkgerrors.NewInputDirUnreadable(dir, err)
	}

	type job struct {
		name    string
		contact string
		html    bool
	}
	var jobs []job
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := logFileRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		jobs = append(jobs, job{
			name:    e.Name(),
			contact: m[1],
			html:    strings.HasPrefix(strings.ToLower(m[3]), "htm"),
		})
	}
	if len(jobs) == 0 {
		return nil, pkgerrors.NewNoLogsFound(dir)
	}

	// os.ReadDir returns entries sorted by filename, so the results
	// slice is already in deterministic order.
	results := make([]*fileLog, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parseWorkers)
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			log.Info("reading", zap.String("file", j.name))
			path := filepath.Join(dir, j.name)
			var fl *fileLog
			var err error
			if j.html {
				fl, err = parsePlusLog(path, j.contact)
			} else {
				fl, err = parseXMLLog(path, j.contact)
			}
			if err != nil {
				// One broken file should not sink the run.
				log.Warn("skipping unparsable log", zap.String("file", j.name), zap.Error(err))
				return nil
			}
			results[i] = fl
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Fold per-file results into per-contact logs, in file order.
	contacts := make(map[string]*contactLog)
	names := make(map[string]string)
	for _, fl := range results {
		if fl == nil {
			continue
		}
		c, ok := contacts[fl.contact]
		if !ok {
			c = newContactLog(fl.contact)
			contacts[fl.contact] = c
		}
		if fl.declaredLast > c.maxOrd {
			c.maxOrd = fl.declaredLast
		}
		for _, sp := range fl.sessionPosts {
			var s *session
			if sp.ord > 0 {
				s = c.session(sp.ord)
			} else {
				s = c.synthSession()
			}
			for _, p := range sp.posts {
				s.addPost(p, log)
			}
		}
		for logon, friendly := range fl.names {
			if _, ok := names[logon]; !ok {
				names[logon] = friendly
			}
		}
	}
	if len(contacts) == 0 {
		// Every candidate file failed to parse.
		return nil, pkgerrors.NewNoLogsFound(dir)
	}

	return buildDataset(mainUser, contacts, names, log), nil
}
