package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingModule struct {
	name     string
	priority int
	order    *[]string
}

func (m *recordingModule) Name() string  { return m.name }
func (m *recordingModule) Priority() int { return m.priority }
func (m *recordingModule) Init(ctx *ModuleContext) error {
	*m.order = append(*m.order, m.name)
	return nil
}

func TestInitModules(t *testing.T) {
	saved := moduleRegistry
	moduleRegistry = make(map[string]Module)
	defer func() { moduleRegistry = saved }()

	var order []string
	Register(&recordingModule{name: "checkout", priority: 20, order: &order})
	Register(&recordingModule{name: "operator", priority: 1, order: &order})
	Register(&recordingModule{name: "order", priority: 10, order: &order})
	Register(&recordingModule{name: "catalog", priority: 10, order: &order})

	require.NoError(t, InitModules(&ModuleContext{}))
	assert.Equal(t, []string{"operator", "catalog", "order", "checkout"}, order)
}
