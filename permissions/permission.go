package permissions

import (
	_ "embed"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

// Permission lists the roles allowed to call one route. An empty list admits
// every authenticated role; Skip disables authentication for the route.
type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

// PermissionData is the role table for every route under /v1.
type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`

	byRoute map[string]Permission
}

// FindPermissions looks up a route pattern. Trailing slashes and wildcards left by
// mounted sub-routers are ignored. Unknown routes get the zero Permission.
func (r *PermissionData) FindPermissions(path, method string) Permission {
	return r.byRoute[routeKey(method, path)]
}

func routeKey(method, path string) string {
	path = strings.TrimSuffix(path, "/*")
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}

	return strings.ToUpper(method) + " " + path
}

// Get parses the embedded permissions.json.
func Get() *PermissionData {
	return parse(permissionsData)
}

func parse(data []byte) *PermissionData {
	var table PermissionData

	if err := json.Unmarshal(data, &table); err != nil {
		log.Err(err).Msg("embedded permissions are not valid JSON")

		return nil
	}

	table.byRoute = make(map[string]Permission, len(table.Endpoints))
	for _, endpoint := range table.Endpoints {
		key := routeKey(endpoint.Method, endpoint.Path)
		if _, dup := table.byRoute[key]; dup {
			log.Warn().Str("route", key).Msg("duplicate permission entry, keeping the first")

			continue
		}

		table.byRoute[key] = endpoint
	}

	log.Info().Int("routes", len(table.byRoute)).Msg("permissions loaded")

	return &table
}
