package router

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type recorder struct {
	name string
	prio int
	log  *[]string
}

func (r recorder) MountAPI(Routes) { *r.log = append(*r.log, "api:"+r.name) }
func (r recorder) MountAdmin(*gin.RouterGroup) { *r.log = append(*r.log, "admin:"+r.name) }
func (r recorder) Priority() int { return r.prio }

type apiOnly struct{ log *[]string }

func (a apiOnly) MountAPI(Routes) { *a.log = append(*a.log, "api:plain") }

func TestRegistry_MountsByPriority(t *testing.T) {
	var got []string
	reg := NewRegistry(
		apiOnly{log: &got},
		recorder{name: "late", prio: 200, log: &got},
		recorder{name: "early", prio: 1, log: &got},
	)

	reg.MountAllAPI(Routes{})
	reg.MountAllAdmin(nil)

	assert.Equal(t, []string{"api:early", "api:plain", "api:late", "admin:early", "admin:late"}, got)
}
