package msnlog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func ts(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("bad timestamp %s: %v", s, err)
	}
	return v
}

// Only the important posts of a session are kept: the first, the post
// after a Join, the post before a Leave, and the last.
func TestParseXMLLog_KeepsImportantPostsOnly(t *testing.T) {
	const log = `<?xml version="1.0"?>
<Log FirstSessionID="1" LastSessionID="2">
 <Message SessionID="1" DateTime="2009-06-20T18:01:00.000Z"><From><User FriendlyName="Alice"/></From><Text>one</Text></Message>
 <Message SessionID="1" DateTime="2009-06-20T18:02:00.000Z"><Text>two</Text></Message>
 <Join SessionID="1" DateTime="2009-06-20T18:03:00.000Z"><User FriendlyName="Carol"/></Join>
 <Message SessionID="1" DateTime="2009-06-20T18:04:00.000Z"><Text>four</Text></Message>
 <Message SessionID="1" DateTime="2009-06-20T18:05:00.000Z"><Text>five</Text></Message>
 <Leave SessionID="1" DateTime="2009-06-20T18:06:00.000Z"><User FriendlyName="Carol"/></Leave>
 <Message SessionID="1" DateTime="2009-06-20T18:07:00.000Z"><Text>seven</Text></Message>
 <Message SessionID="2" DateTime="2009-06-20T19:00:00.000Z"><Text>eight</Text></Message>
 <Message SessionID="2" DateTime="2009-06-20T19:01:00.000Z"><Text>nine</Text></Message>
</Log>`
	path := writeFile(t, t.TempDir(), "alice@x.com.xml", log)

	fl, err := parseXMLLog(path, "alice@x.com")
	if err != nil {
		t.Fatalf("parseXMLLog: %v", err)
	}
	if fl.declaredLast != 2 {
		t.Errorf("declaredLast = %d, want 2", fl.declaredLast)
	}
	if len(fl.sessionPosts) != 2 {
		t.Fatalf("sessions = %d, want 2", len(fl.sessionPosts))
	}

	want1 := []string{
		"2009-06-20T18:01:00Z", // first of session
		"2009-06-20T18:04:00Z", // follows the Join
		"2009-06-20T18:05:00Z", // precedes the Leave
		"2009-06-20T18:07:00Z", // last of session
	}
	s1 := fl.sessionPosts[0]
	if s1.ord != 1 || len(s1.posts) != len(want1) {
		t.Fatalf("session 1 = ord %d with %d posts, want ord 1 with %d", s1.ord, len(s1.posts), len(want1))
	}
	for i, w := range want1 {
		if !s1.posts[i].Equal(ts(t, w)) {
			t.Errorf("session 1 post %d = %v, want %v", i, s1.posts[i], w)
		}
	}

	s2 := fl.sessionPosts[1]
	if s2.ord != 2 || len(s2.posts) != 2 {
		t.Fatalf("session 2 = ord %d with %d posts, want ord 2 with 2", s2.ord, len(s2.posts))
	}
	if !s2.posts[0].Equal(ts(t, "2009-06-20T19:00:00Z")) || !s2.posts[1].Equal(ts(t, "2009-06-20T19:01:00Z")) {
		t.Errorf("session 2 posts = %v", s2.posts)
	}
}

func TestParseXMLLog_HarvestsDisplayNames(t *testing.T) {
	const log = `<?xml version="1.0"?>
<Log FirstSessionID="1" LastSessionID="1">
 <Message SessionID="1" DateTime="2009-06-20T18:01:00.000Z">
  <From><User LogonName="Alice@X.com" FriendlyName="Alice"/></From>
  <Text>hi</Text>
 </Message>
</Log>`
	path := writeFile(t, t.TempDir(), "alice@x.com.xml", log)

	fl, err := parseXMLLog(path, "alice@x.com")
	if err != nil {
		t.Fatalf("parseXMLLog: %v", err)
	}
	if got := fl.names["alice@x.com"]; got != "Alice" {
		t.Errorf("names[alice@x.com] = %q, want Alice", got)
	}
}

func TestParseXMLLog_Malformed(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad@x.com.xml", "<Log><Message")
	if _, err := parseXMLLog(path, "bad@x.com"); err == nil {
		t.Fatal("expected an error for truncated XML")
	}
}

func TestSession_AddPostDropsNonMonotonic(t *testing.T) {
	s := &session{contact: "a@x.com", ord: 1}
	log := zap.NewNop()

	s.addPost(ts(t, "2009-06-20T18:05:00Z"), log)
	s.addPost(ts(t, "2009-06-20T18:04:00Z"), log) // clock went backwards
	s.addPost(ts(t, "2009-06-20T18:05:00Z"), log) // duplicate instant
	s.addPost(ts(t, "2009-06-20T18:06:00Z"), log)

	if len(s.posts) != 2 {
		t.Fatalf("posts = %d, want 2 (non-monotonic dropped)", len(s.posts))
	}
}
