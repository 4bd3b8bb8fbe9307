package iso

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// defaultLogger is used by scenes and sorters that were not given one.
// Warnings only, so release builds stay quiet unless something is off.
var defaultLogger logrus.FieldLogger = newDefaultLogger()

func newDefaultLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.WarnLevel)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

// Stats holds per-scene counts and the timings of the most recent update.
type Stats struct {
	TotalObjects   int
	VisibleObjects int
	TotalSprites   int
	VisibleSprites int
	// SortedSprites is the length of the current draw order after the
	// visible-sprite budget was applied.
	SortedSprites int
	// Edges and Cycles describe the most recent sort pass.
	Edges  int
	Cycles int

	CullTime   time.Duration
	SortTime   time.Duration
	LODTime    time.Duration
	UpdateTime time.Duration
}

// debugLog writes the tick's counters and timings at debug level.
func (s *Scene) debugLog() {
	if !s.debug {
		return
	}
	st := s.stats
	s.log.WithFields(logrus.Fields{
		"cull":    st.CullTime,
		"sort":    st.SortTime,
		"lod":     st.LODTime,
		"total":   st.UpdateTime,
		"objects": st.VisibleObjects,
		"sprites": st.VisibleSprites,
		"sorted":  st.SortedSprites,
	}).Debug("iso: scene update")
}
