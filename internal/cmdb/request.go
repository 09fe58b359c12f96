package cmdb

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Argument keys understood by the CMDB query endpoints
const (
	ArgExec         = "exec"
	ArgDeployment   = "deployment"
	ArgReturnFields = "rf"
)

// Args is the query descriptor: an operation selector under ArgExec plus
// operation-specific parameters
type Args map[string]any

// Credentials authenticate a single request
type Credentials struct {
	User     string `yaml:"user" json:"-"`
	Password string `yaml:"password" json:"-"`
}

// Empty reports whether no credentials are set
func (c Credentials) Empty() bool {
	return c.User == "" && c.Password == ""
}

// Request is everything the executor needs for one query. It is built per
// call and not shared, so no argument or credential state outlives the call.
type Request struct {
	args        Args
	credentials Credentials
	target      string
}

// NewRequest builds a request from a copy of args
func NewRequest(args Args, creds Credentials) *Request {
	copied := make(Args, len(args))
	for k, v := range args {
		if list, ok := v.([]string); ok {
			v = append([]string(nil), list...)
		}
		copied[k] = v
	}
	return &Request{args: copied, credentials: creds}
}

// WithTarget pins the operation target instead of resolving it from ArgExec
func (r *Request) WithTarget(target string) *Request {
	r.target = target
	return r
}

// Exec returns the operation selector
func (r *Request) Exec() string {
	s, _ := r.args[ArgExec].(string)
	return s
}

// Target returns the operation target the executor should address: the
// pinned target if one was set, otherwise the operation selector.
func (r *Request) Target() string {
	if r.target != "" {
		return r.target
	}
	return r.Exec()
}

// Credentials returns the request credentials
func (r *Request) Credentials() Credentials {
	return r.credentials
}

// Arg returns a single argument value
func (r *Request) Arg(key string) (any, bool) {
	v, ok := r.args[key]
	return v, ok
}

// Query encodes the operation parameters as URL query values. The operation
// selector is addressed through the target and is not repeated here. List
// values are comma-joined.
func (r *Request) Query() url.Values {
	keys := make([]string, 0, len(r.args))
	for k := range r.args {
		if k == ArgExec {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := url.Values{}
	for _, k := range keys {
		switch v := r.args[k].(type) {
		case nil:
			continue
		case string:
			values.Set(k, v)
		case []string:
			values.Set(k, strings.Join(v, ","))
		default:
			values.Set(k, fmt.Sprint(v))
		}
	}
	return values
}
