package docs

import (
	"regexp"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// TestTopics ensures the documentation is in sync with itself:
// every topic file is listed in readme.md, every listed topic loads, and
// every topic starts with a level-1 heading.
func TestTopics(t *testing.T) {
	readme, err := GetTopic("readme")
	if err != nil {
		t.Fatalf("failed to load readme: %v", err)
	}

	var listed []string
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	for _, line := range strings.Split(readme, "\n") {
		if matches := topicRegex.FindStringSubmatch(line); len(matches) > 1 {
			listed = append(listed, strings.TrimSpace(matches[1]))
		}
	}
	if len(listed) == 0 {
		t.Fatal("readme.md lists no topics")
	}

	all, err := GetAllTopics()
	if err != nil {
		t.Fatal(err)
	}
	for _, topic := range all {
		found := false
		for _, l := range listed {
			if l == topic {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("topic %q is not listed in readme.md", topic)
		}
	}

	for _, topic := range listed {
		t.Run(topic, func(t *testing.T) {
			content, err := GetTopic(topic)
			if err != nil {
				t.Fatalf("failed to load topic: %v", err)
			}

			source := []byte(content)
			doc := goldmark.DefaultParser().Parse(text.NewReader(source))
			heading := false
			ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
				if h, ok := n.(*ast.Heading); ok && entering && h.Level == 1 {
					heading = true
					return ast.WalkStop, nil
				}
				return ast.WalkContinue, nil
			})
			if !heading {
				t.Error("topic has no level-1 heading")
			}
		})
	}
}

func TestGetTopicUnknown(t *testing.T) {
	if _, err := GetTopic("no-such-topic"); err == nil {
		t.Fatal("expected error for unknown topic")
	}
}

func TestGetTopicsStar(t *testing.T) {
	all, err := GetTopics("*")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"# FIFO Matching", "# Exchange Rates", "# Rounding", "# Custom Matching"} {
		if !strings.Contains(all, want) {
			t.Errorf("combined topics missing %q", want)
		}
	}
}
