package msnlog

import (
	"encoding/xml"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	pkgerrors "msngraph/pkg/errors"
)

// fileLog is the raw result of parsing a single export file.
type fileLog struct {
	path    string
	contact string
	// declaredLast is the Log element's LastSessionID (XML only).
	declaredLast int
	// sessionPosts holds the kept posts per session ordinal, in document
	// order. HTML sessions carry no ordinal (0 here) and get a synthetic
	// one when folded into the contact's log.
	sessionPosts []sessionPosts
	// names maps lowercased logon names to friendly names, harvested
	// from User elements that carry both.
	names map[string]string
}

type sessionPosts struct {
	ord   int // 0 for formats without session numbering
	posts []time.Time
}

// parseXMLLog streams one MSN Messenger XML message log, keeping only the
// important posts of each session: the session's first and last post, the
// post after each Join and the post before each Leave. Everything else
// (text, senders, recipients) is irrelevant to presence reconstruction.
func parseXMLLog(path, contact string) (*fileLog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pkgerrors.NewLogParseFailed(path, err)
	}
	defer f.Close()

	fl := &fileLog{path: path, contact: contact, names: make(map[string]string)}
	byOrd := make(map[int]int) // session ordinal -> index into sessionPosts

	keep := func(ord int, t time.Time) {
		i, ok := byOrd[ord]
		if !ok {
			i = len(fl.sessionPosts)
			fl.sessionPosts = append(fl.sessionPosts, sessionPosts{ord: ord})
			byOrd[ord] = i
		}
		fl.sessionPosts[i].posts = append(fl.sessionPosts[i].posts, t)
	}

	// MSN exports are written as UTF-16 with a BOM about as often as
	// UTF-8; sniff the BOM before handing the stream to the decoder.
	dec := xml.NewDecoder(transform.NewReader(f, unicode.BOMOverride(unicode.UTF8.NewDecoder())))

	var prevTag string
	var prevPost time.Time
	havePrev := false
	prevSession := 0

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, pkgerrors.NewLogParseFailed(path, err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch se.Name.Local {
		case "Log":
			if n, err := strconv.Atoi(attr(se, "LastSessionID")); err == nil {
				fl.declaredLast = n
			}
			continue
		case "User":
			logon := attr(se, "LogonName")
			friendly := attr(se, "FriendlyName")
			if logon != "" && friendly != "" {
				fl.names[strings.ToLower(logon)] = friendly
			}
			continue
		case "Message", "Join", "Leave", "Invitation", "InvitationResponse":
		default:
			continue
		}

		sid, err := strconv.Atoi(attr(se, "SessionID"))
		if err != nil || sid < 1 {
			continue
		}
		post, err := parseTimestamp(attr(se, "DateTime"))
		if err != nil {
			continue
		}

		// A Leave, or a session change, makes the previous post the
		// last one worth keeping for its session.
		if havePrev && (se.Name.Local == "Leave" || sid != prevSession) {
			keep(prevSession, prevPost)
		}

		// A post right after a Join, or the first post of a session,
		// is kept immediately (and must not be kept again as a
		// trailing post).
		if prevTag == "Join" || sid != prevSession {
			keep(sid, post)
			havePrev = false
		} else {
			prevPost = post
			havePrev = true
		}

		prevTag = se.Name.Local
		prevSession = sid
	}

	// The final post of the final session.
	if havePrev {
		keep(prevSession, prevPost)
	}

	return fl, nil
}

func attr(se xml.StartElement, name string) string {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// parseTimestamp parses the DateTime attribute, an RFC 3339 instant with
// millisecond resolution ("2009-06-20T18:20:32.483Z").
func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
