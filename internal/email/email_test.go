package email

import (
	"strings"
	"testing"

	"app/internal/logger"
)

func TestRenderTaskDigestGroupsByCourse(t *testing.T) {
	tasks := []DigestTask{
		{Title: "Essay draft", Course: "World History", CourseCode: "HIST210", DueDate: "2026-09-03"},
		{Title: "Assignment 1", Course: "Intro to Computer Science", CourseCode: "CS101", DueDate: "2026-09-02", Description: "Chapters 1-3"},
		{Title: "Quiz 1", Course: "Intro to Computer Science", CourseCode: "CS101", DueDate: "2026-09-05"},
	}

	html := RenderTaskDigest(tasks, 7)

	if !strings.Contains(html, "Upcoming tasks in the next 7 days") {
		t.Fatal("missing digest header")
	}
	if !strings.Contains(html, "Intro to Computer Science (CS101)") {
		t.Fatal("missing CS101 course section")
	}
	if !strings.Contains(html, "World History (HIST210)") {
		t.Fatal("missing HIST210 course section")
	}
	if !strings.Contains(html, "Chapters 1-3") {
		t.Fatal("missing task description")
	}
	// Courses are emitted in sorted order.
	if strings.Index(html, "Intro to Computer Science") > strings.Index(html, "World History") {
		t.Fatal("courses not sorted alphabetically")
	}
	// Both CS101 tasks land in the same section.
	if strings.Count(html, "<h3") != 2 {
		t.Fatalf("expected 2 course sections, got %d", strings.Count(html, "<h3"))
	}
}

func TestSendTaskDigestSkipsWithoutCredentials(t *testing.T) {
	sender := NewSender(SMTPConfig{Host: "localhost", Port: 587}, logger.New())
	err := sender.SendTaskDigest("student@example.com", "daily", nil, 7)
	if err != nil {
		t.Fatalf("expected dev fallback to succeed, got %v", err)
	}
}
