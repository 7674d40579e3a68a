package discord

import (
	"regexp"
	"strconv"
	"strings"
)

var replyPattern = regexp.MustCompile(`(?i)^(\d+|a|d)$`)

// pagerReply is a follow-up message to a paged embed: either a page step or
// a 0-based pick.
type pagerReply struct {
	page  int
	index int
}

// parseReply reads "a" (previous page), "d" (next page) or a 1-based number.
func parseReply(content string) (pagerReply, bool) {
	match := replyPattern.FindStringSubmatch(content)
	if match == nil {
		return pagerReply{}, false
	}

	switch strings.ToLower(match[1]) {
	case "a":
		return pagerReply{page: -1, index: -1}, true
	case "d":
		return pagerReply{page: 1, index: -1}, true
	}

	n, err := strconv.Atoi(match[1])
	if err != nil {
		return pagerReply{index: -1}, true
	}
	return pagerReply{index: n - 1}, true
}
