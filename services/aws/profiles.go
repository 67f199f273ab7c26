package aws

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ListProfiles scans ~/.aws/credentials and ~/.aws/config for profile
// section headers. "default" is listed first when present. Unreadable files
// simply contribute nothing.
func ListProfiles() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return listProfiles(filepath.Join(home, ".aws"))
}

func listProfiles(dir string) []string {
	seen := map[string]bool{}

	for _, section := range sectionNames(filepath.Join(dir, "credentials")) {
		seen[section] = true
	}

	for _, section := range sectionNames(filepath.Join(dir, "config")) {
		if name, ok := strings.CutPrefix(section, "profile "); ok {
			seen[name] = true
		} else if section == "default" {
			seen["default"] = true
		}
	}

	profiles := make([]string, 0, len(seen))
	for name := range seen {
		if name != "default" {
			profiles = append(profiles, name)
		}
	}
	sort.Strings(profiles)

	if seen["default"] {
		profiles = append([]string{"default"}, profiles...)
	}

	return profiles
}

func sectionNames(path string) (sections []string) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			sections = append(sections, line[1:len(line)-1])
		}
	}

	return sections
}
