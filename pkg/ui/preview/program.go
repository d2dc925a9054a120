package preview

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

type program struct {
	model Model
}

func (p program) Init() tea.Cmd {
	return p.model.Init()
}

//nolint:ireturn // Must satisfy [tea.Model].
func (p program) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := p.model.Update(msg)

	return program{model: m}, cmd
}

func (p program) View() string {
	return p.model.View()
}

// Run runs the preview until the user quits or ctx is cancelled, and returns
// the final model.
func Run(ctx context.Context, c Config, opts ...tea.ProgramOption) (Model, error) {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)

	final, err := tea.NewProgram(program{model: New(c)}, opts...).Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return Model{}, fmt.Errorf("run preview: %w", err)
	}

	p, ok := final.(program)
	if !ok {
		return Model{}, nil
	}

	return p.model, nil
}
