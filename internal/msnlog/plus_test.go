package msnlog

import (
	"testing"
	"time"
)

func TestParsePlusLog_Sessions(t *testing.T) {
	const log = `<html><body>
<div class="mplsession" id="Session_2009-06-20T18-00-00">
<table>
<tr><td class="time">(18:00)</td><th>Alice:</th><td>hi</td></tr>
<tr><td class="time">(18:05)</td><th>Bob:</th><td>yo</td></tr>
</table>
</div>
<div class="mplsession" id="Session_2009-06-21T10-30-00">
<table>
<tr><td class="time">(10:30:15)</td><th>Alice:</th><td>again</td></tr>
</table>
</div>
</body></html>`
	path := writeFile(t, t.TempDir(), "alice@x.com.html", log)

	fl, err := parsePlusLog(path, "alice@x.com")
	if err != nil {
		t.Fatalf("parsePlusLog: %v", err)
	}
	if len(fl.sessionPosts) != 2 {
		t.Fatalf("sessions = %d, want 2", len(fl.sessionPosts))
	}

	s1 := fl.sessionPosts[0]
	if len(s1.posts) != 2 {
		t.Fatalf("session 1 posts = %d, want 2", len(s1.posts))
	}
	if !s1.posts[0].Equal(time.Date(2009, 6, 20, 18, 0, 0, 0, time.UTC)) {
		t.Errorf("post 0 = %v", s1.posts[0])
	}
	if !s1.posts[1].Equal(time.Date(2009, 6, 20, 18, 5, 0, 0, time.UTC)) {
		t.Errorf("post 1 = %v", s1.posts[1])
	}

	s2 := fl.sessionPosts[1]
	if len(s2.posts) != 1 || !s2.posts[0].Equal(time.Date(2009, 6, 21, 10, 30, 15, 0, time.UTC)) {
		t.Errorf("session 2 posts = %v", s2.posts)
	}
}

func TestParsePlusLog_MidnightRollover(t *testing.T) {
	const log = `<html><body>
<div class="mplsession" id="Session_2009-06-20T23-50-00">
<table>
<tr><td class="time">(23:50)</td><th>Alice:</th><td>late</td></tr>
<tr><td class="time">(00:10)</td><th>Bob:</th><td>later</td></tr>
</table>
</div>
</body></html>`
	path := writeFile(t, t.TempDir(), "alice@x.com.html", log)

	fl, err := parsePlusLog(path, "alice@x.com")
	if err != nil {
		t.Fatalf("parsePlusLog: %v", err)
	}
	posts := fl.sessionPosts[0].posts
	if len(posts) != 2 {
		t.Fatalf("posts = %d, want 2", len(posts))
	}
	if !posts[1].Equal(time.Date(2009, 6, 21, 0, 10, 0, 0, time.UTC)) {
		t.Errorf("rollover post = %v, want next day 00:10", posts[1])
	}
}
