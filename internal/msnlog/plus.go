package msnlog

import (
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	pkgerrors "msngraph/pkg/errors"
)

// Messenger Plus! saves history as HTML, one div.mplsession per session.
// The div id carries the session start instant; individual rows only carry
// a wall-clock time of day, resolved against the session date below.
//
//	<div class="mplsession" id="Session_2009-06-20T18-20-32">
//	  ... <td class="time">(18:23)</td> ...
//
// The format records no Join/Leave markup and no session numbering, so
// these sessions contribute posts only and get synthetic ordinals.
const plusSessionIDLayout = "Session_2006-01-02T15-04-05"

var plusTimeRe = regexp.MustCompile(`\((\d{1,2}):(\d{2})(?::(\d{2}))?\)`)

// parsePlusLog reads one Messenger Plus! HTML log into per-session posts.
func parsePlusLog(path, contact string) (*fileLog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pkgerrors.NewLogParseFailed(path, err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, pkgerrors.NewLogParseFailed(path, err)
	}

	fl := &fileLog{path: path, contact: contact, names: make(map[string]string)}

	doc.Find("div.mplsession").Each(func(_ int, sel *goquery.Selection) {
		id, ok := sel.Attr("id")
		if !ok {
			return
		}
		start, err := time.Parse(plusSessionIDLayout, id)
		if err != nil {
			return
		}

		sp := sessionPosts{}
		prev := start
		sel.Find(".time").Each(func(_ int, cell *goquery.Selection) {
			t, ok := resolveClock(prev, strings.TrimSpace(cell.Text()))
			if !ok {
				return
			}
			sp.posts = append(sp.posts, t)
			prev = t
		})
		if len(sp.posts) > 0 {
			fl.sessionPosts = append(fl.sessionPosts, sp)
		}
	})

	return fl, nil
}

// resolveClock turns a "(18:23)" or "(18:23:05)" cell into an absolute
// instant on or after prev, rolling over to the next day when the clock
// goes backwards past midnight.
func resolveClock(prev time.Time, cell string) (time.Time, bool) {
	m := plusTimeRe.FindStringSubmatch(cell)
	if m == nil {
		return time.Time{}, false
	}
	hh := atoi2(m[1])
	mm := atoi2(m[2])
	ss := 0
	if m[3] != "" {
		ss = atoi2(m[3])
	}
	t := time.Date(prev.Year(), prev.Month(), prev.Day(), hh, mm, ss, 0, prev.Location())
	if t.Before(prev) && prev.Sub(t) > 12*time.Hour {
		t = t.AddDate(0, 0, 1)
	}
	return t, true
}

func atoi2(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}
