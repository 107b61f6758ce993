package logging

import "testing"

func TestNewBuildsBothModes(t *testing.T) {
	for _, debug := range []bool{false, true} {
		log, err := New(debug)
		if err != nil {
			t.Fatalf("New(%v): %v", debug, err)
		}
		log.Debugw("logger ready", "debug", debug)
	}
	Nop().Infow("discarded")
}
