package authz

import (
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// Subjects the enforcer knows about
const (
	SubjectAdmin = "admin"
	SubjectUser  = "user"
)

// Enforcer decides whether a role may call a route
type Enforcer struct {
	e *casbin.Enforcer
}

// New builds an in-memory enforcer with the route policy
func New() (*Enforcer, error) {
	m := model.NewModel()
	m.AddDef("r", "r", "sub, obj, act")
	m.AddDef("p", "p", "sub, obj, act")
	m.AddDef("e", "e", "some(where (p.eft == allow))")
	m.AddDef("m", "m", "r.sub == p.sub && pathMatch(r.obj, p.obj) && methodMatch(r.act, p.act)")

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create enforcer: %w", err)
	}
	e.AddFunction("pathMatch", func(args ...interface{}) (interface{}, error) {
		return PathMatch(args[0].(string), args[1].(string)), nil
	})
	e.AddFunction("methodMatch", func(args ...interface{}) (interface{}, error) {
		return MethodMatch(args[0].(string), args[1].(string)), nil
	})

	policies := [][]string{
		{SubjectAdmin, "/v1/**", "ANY"},
		{SubjectUser, "/v1/me/**", "ANY"},
		{SubjectUser, "/v1/articles/**", "ANY"},
		{SubjectUser, "/v1/uploads/**", "POST"},
		{SubjectUser, "/v1/profiles/**", "ANY"},
		{SubjectUser, "/v1/auth/**", "ANY"},
	}
	for _, p := range policies {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, fmt.Errorf("failed to add policy %v: %w", p, err)
		}
	}

	return &Enforcer{e: e}, nil
}

// Allow reports whether subject may perform method on path
func (a *Enforcer) Allow(subject, path, method string) (bool, error) {
	return a.e.Enforce(subject, path, method)
}

// SubjectFor maps the admin flag onto an enforcer subject
func SubjectFor(isAdmin bool) string {
	if isAdmin {
		return SubjectAdmin
	}
	return SubjectUser
}

// PathMatch matches key1 against a pattern ending in "/*" (one segment) or "/**"
// (the base path itself or anything below it)
func PathMatch(key1, key2 string) bool {
	i := strings.LastIndex(key2, "/")
	if i == -1 {
		return false
	}
	switch key2[i+1:] {
	case "*":
		return strings.HasPrefix(key1, key2[:i+1]) && !strings.Contains(key1[i+1:], "/")
	case "**":
		return key1 == key2[:i] || strings.HasPrefix(key1, key2[:i+1])
	default:
		return key1 == key2
	}
}

// MethodMatch matches an HTTP method; ANY matches everything
func MethodMatch(key1, key2 string) bool {
	return key2 == "ANY" || key1 == key2
}
