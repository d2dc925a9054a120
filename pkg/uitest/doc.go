// Package uitest provides helpers for testing Bubble Tea models with
// [github.com/charmbracelet/x/exp/teatest].
//
// [NewTestModel] accepts models whose Update method returns the concrete
// model type instead of [tea.Model]:
//
//	tm := uitest.NewTestModel(t, preview.New(cfg), uitest.Compact)
//	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
//	uitest.WaitFor(t, tm.Output(), func(b []byte) bool {
//	    return bytes.Contains(b, []byte("Applied"))
//	})
package uitest
