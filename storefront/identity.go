package storefront

import (
	"fmt"
	"regexp"
	"strings"
)

// Platform is the game edition a player name belongs to.
type Platform string

const (
	PlatformJava    Platform = "java"
	PlatformBedrock Platform = "bedrock"
)

// bedrockPrefix marks Bedrock names on Geyser/Floodgate servers.
const bedrockPrefix = "."

var (
	javaName    = regexp.MustCompile(`^[A-Za-z0-9_]{3,16}$`)
	bedrockName = regexp.MustCompile(`^[A-Za-z0-9_ ]{3,16}$`)
)

// Identity is a validated player name. Raw keeps the Bedrock prefix and is
// what gets submitted and persisted.
type Identity struct {
	Raw      string
	Platform Platform
}

// Name returns the player name without the Bedrock prefix.
func (i Identity) Name() string {
	return strings.TrimPrefix(i.Raw, bedrockPrefix)
}

// IdentityError reports a player name that failed validation.
type IdentityError struct {
	Input    string
	Platform Platform
	Reason   string
}

func (e *IdentityError) Error() string {
	if e.Platform == "" {
		return fmt.Sprintf("invalid player name %q: %s", e.Input, e.Reason)
	}
	return fmt.Sprintf("invalid %s player name %q: %s", e.Platform, e.Input, e.Reason)
}

// ParseIdentity trims input and validates it as a Java name, or as a Bedrock
// name when it starts with a dot.
func ParseIdentity(input string) (Identity, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Identity{}, &IdentityError{Input: input, Reason: "a player name is required"}
	}

	if strings.HasPrefix(raw, bedrockPrefix) {
		if !bedrockName.MatchString(strings.TrimPrefix(raw, bedrockPrefix)) {
			return Identity{}, &IdentityError{
				Input:    raw,
				Platform: PlatformBedrock,
				Reason:   "must be 3-16 letters, digits, underscores or spaces after the dot",
			}
		}
		return Identity{Raw: raw, Platform: PlatformBedrock}, nil
	}

	if !javaName.MatchString(raw) {
		return Identity{}, &IdentityError{
			Input:    raw,
			Platform: PlatformJava,
			Reason:   "must be 3-16 letters, digits or underscores",
		}
	}
	return Identity{Raw: raw, Platform: PlatformJava}, nil
}
