package assistant

import (
	"strings"
)

// Slot extraction splits a command at its trigger phrase and keeps the
// remainder. Each intent has its own trigger ladder; the first trigger
// present in the command wins, and the remainder is cleaned the same way
// the whole command was.

var searchSlotTriggers = []string{
	"find", "search for", "look for", "search",
	"show me products", "do you have", "show me",
}

var addSlotTriggers = []string{"add to cart", "buy", "add", "purchase", "get"}

var removeSlotTriggers = []string{"remove from cart", "delete from cart", "take out of cart"}

var navigationSlotTriggers = []string{"go to", "open", "show me", "navigate to", "take me to"}

// extractSearchTerm pulls the search term out of a search command.
// Empty when the command is a bare trigger.
func extractSearchTerm(command string) string {
	return extractAfterTrigger(command, searchSlotTriggers, nil)
}

// extractAddProductName pulls the product name out of an add command.
func extractAddProductName(command string) string {
	return extractAfterTrigger(command, addSlotTriggers, nil)
}

// extractRemoveProductName pulls the product name out of a remove command.
// Commands phrased as "remove X from cart" keep only X.
func extractRemoveProductName(command string) string {
	name := extractAfterTrigger(command, removeSlotTriggers, nil)
	if name == "" && strings.Contains(command, "remove") && strings.Contains(command, "cart") {
		name = afterPhrase(command, "remove")
		name = strings.Replace(name, "from cart", "", 1)
		name = strings.Replace(name, "from my cart", "", 1)
	}
	return cleanSlot(name)
}

// extractDestination pulls the destination out of a navigation command.
// "show me products ..." is a search phrasing, so "show me" is skipped
// when it appears; the remaining triggers still apply.
func extractDestination(command string) string {
	skip := func(trigger string) bool {
		return trigger == "show me" && strings.Contains(command, "show me products")
	}
	return extractAfterTrigger(command, navigationSlotTriggers, skip)
}

// extractAfterTrigger returns the cleaned text after the first trigger in
// the ladder that the command contains, or "" when none match.
func extractAfterTrigger(command string, triggers []string, skip func(string) bool) string {
	for _, trigger := range triggers {
		if skip != nil && skip(trigger) {
			continue
		}
		if strings.Contains(command, trigger) {
			return cleanSlot(afterPhrase(command, trigger))
		}
	}
	return ""
}

// cleanSlot trims whitespace and trailing punctuation from an extracted
// slot, mirroring Normalize without the lowercasing.
func cleanSlot(slot string) string {
	slot = strings.TrimSpace(slot)
	slot = strings.TrimRight(slot, trailingPunctuation)
	return strings.TrimSpace(slot)
}
