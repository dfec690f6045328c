package repl

// show replaces the input with the history entry at i, switching to its mode.
func (m model) show(i int, entry HistoryEntry) model {
	if m.mode != entry.Mode {
		m = m.switchToMode(entry.Mode)
	}

	m.historyIdx = i
	m.restore(draft{text: entry.Line, cursor: len(entry.Line)})
	refreshMatches(&m, false)

	return m
}

// find returns the index of the nearest entry in direction step from the
// current history position that satisfies keep.
func (m model) find(step int, keep func(HistoryEntry) bool) (int, HistoryEntry, bool) {
	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		entry, err := m.history.Entry(i)
		if err == nil && keep(entry) {
			return i, entry, true
		}
	}

	return 0, HistoryEntry{}, false
}

// navigate moves through history by one entry in direction step. With
// sameMode, entries of the other mode are skipped and the mode never changes.
// Moving past the newest entry clears the input.
func (m model) navigate(step int, sameMode bool) model {
	mode := m.mode

	i, entry, ok := m.find(step, func(e HistoryEntry) bool {
		return !sameMode || e.Mode == mode
	})

	switch {
	case ok:
		return m.show(i, entry)

	case step > 0 && m.historyIdx < m.history.Len():
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m
}

// navigateCtrl moves through command history only, switching to command mode
// on first use. The original mode and input are restored when navigation
// runs off either end.
func (m model) navigateCtrl(step int) model {
	if !m.altNavActive {
		m.altNavActive = true
		m.altNavMode = m.mode
		m.altNavDraft = m.current()

		if m.mode != modeCtrl {
			m = m.switchToMode(modeCtrl)
		}
	}

	i, entry, ok := m.find(step, func(e HistoryEntry) bool {
		return e.Mode == modeCtrl
	})
	if ok {
		return m.show(i, entry)
	}

	m.altNavActive = false

	if m.altNavMode != m.mode {
		m = m.switchToMode(m.altNavMode)
	}

	m.restore(m.altNavDraft)
	m.historyIdx = m.history.Len()
	refreshMatches(&m, false)

	return m
}
