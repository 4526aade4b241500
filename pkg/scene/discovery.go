package scene

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	TypeBuiltin = "builtin"
	TypeYAML    = "yaml"

	builtinGroup = "Built-in Scenes"
	fileGroup    = "Scene Files"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "yaml"
	FilePath    string `json:"-"`           // Path to the scene file (yaml type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

// ListBuiltinScenes describes the built-in scenes
func ListBuiltinScenes() []SceneInfo {
	var scenes []SceneInfo
	for _, name := range BuiltinNames() {
		scenes = append(scenes, SceneInfo{
			ID:          name,
			Name:        titleCase(name),
			DisplayName: titleCase(name),
			Description: builtins[name].description,
			Group:       builtinGroup,
			Type:        TypeBuiltin,
		})
	}
	return scenes
}

// ListSceneFiles scans dirs for YAML scene files. Missing directories are skipped.
func ListSceneFiles(dirs ...string) ([]SceneInfo, error) {
	var scenes []SceneInfo

	for _, dir := range dirs {
		if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
			continue
		}

		for _, pattern := range []string{"*.yaml", "*.yml"} {
			files, err := filepath.Glob(filepath.Join(dir, pattern))
			if err != nil {
				return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
			}

			for _, filePath := range files {
				sceneInfo, err := ParseMetadata(filePath)
				if err != nil {
					// Log warning but continue processing other files
					logger.Warningf("Failed to parse metadata for %s: %v", filePath, err)
					continue
				}
				scenes = append(scenes, sceneInfo)
			}
		}
	}

	// Sort scenes by display name
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ParseMetadata extracts metadata from the header comments of a scene file:
//
//	# Scene: Three Spheres
//	# Description: Diffuse, metal and glass side by side
//	# Group: Demos
func ParseMetadata(filePath string) (SceneInfo, error) {
	// Extract filename without extension for fallback values
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	sceneInfo := SceneInfo{
		ID:          fmt.Sprintf("%s:%s", TypeYAML, nameWithoutExt),
		Name:        titleCase(nameWithoutExt),
		DisplayName: titleCase(nameWithoutExt),
		Group:       fileGroup,
		Type:        TypeYAML,
		FilePath:    filePath,
	}

	file, err := os.Open(filePath)
	if err != nil {
		return sceneInfo, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Stop parsing at first non-comment line
		if !strings.HasPrefix(line, "#") {
			break
		}

		content := strings.TrimSpace(strings.TrimPrefix(line, "#"))
		switch {
		case strings.HasPrefix(content, "Scene:"):
			sceneInfo.Name = strings.TrimSpace(strings.TrimPrefix(content, "Scene:"))
			sceneInfo.DisplayName = sceneInfo.Name
		case strings.HasPrefix(content, "Description:"):
			sceneInfo.Description = strings.TrimSpace(strings.TrimPrefix(content, "Description:"))
		case strings.HasPrefix(content, "Group:"):
			sceneInfo.Group = strings.TrimSpace(strings.TrimPrefix(content, "Group:"))
		}
	}

	return sceneInfo, scanner.Err()
}

// Discover lists the built-in scenes followed by the scene files found in dirs
func Discover(dirs ...string) ([]SceneInfo, error) {
	files, err := ListSceneFiles(dirs...)
	if err != nil {
		return nil, err
	}
	return append(ListBuiltinScenes(), files...), nil
}

// GroupScenes groups scenes by their Group field, built-in scenes first and
// the other groups alphabetically
func GroupScenes(scenes []SceneInfo) ScenesResponse {
	var response ScenesResponse

	groupMap := make(map[string][]SceneInfo)
	for _, scene := range scenes {
		groupMap[scene.Group] = append(groupMap[scene.Group], scene)
	}

	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtinGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	if builtInGroup, exists := groupMap[builtinGroup]; exists {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   builtinGroup,
			Scenes: builtInGroup,
		})
	}

	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   groupName,
			Scenes: groupMap[groupName],
		})
	}

	return response
}

// Resolve builds the scene named by ref, which must be a built-in scene
// name or the ID of one of the discovered scenes
func Resolve(ref string, scenes []SceneInfo, random *rand.Rand) (*Scene, error) {
	if _, ok := builtins[ref]; ok {
		return NewBuiltin(ref, random)
	}

	for _, info := range scenes {
		if info.ID == ref && info.Type == TypeYAML {
			return Load(info.FilePath, random)
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownScene, ref)
}

// Open resolves ref like Resolve and otherwise treats it as a path to a YAML file
func Open(ref string, scenes []SceneInfo, random *rand.Rand) (*Scene, error) {
	s, err := Resolve(ref, scenes, random)
	if !errors.Is(err, ErrUnknownScene) {
		return s, err
	}

	if _, statErr := os.Stat(ref); statErr == nil {
		return Load(ref, random)
	}
	return nil, err
}

// titleCase converts a filename-style string to title case
// e.g., "three-spheres" -> "Three Spheres"
func titleCase(s string) string {
	// Replace hyphens and underscores with spaces
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	// Title case each word
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
