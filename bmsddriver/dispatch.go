package bmsddriver

// Dispatcher walks a CommandTable front to back, one command per edge.
type Dispatcher struct {
	table     CommandTable
	poller    Poller
	cursor    int
	exhausted bool
}

func NewDispatcher(table CommandTable, poller Poller) *Dispatcher {
	return &Dispatcher{table: table, poller: poller}
}

// Cursor is the index of the next command to send.
func (d *Dispatcher) Cursor() int {
	return d.cursor
}

func (d *Dispatcher) Exhausted() bool {
	return d.exhausted
}

// Bootstrap sends the first n commands unconditionally, ahead of any edge.
func (d *Dispatcher) Bootstrap(n int) {
	INFOLogger.Printf("Sending %d bootstrap commands", n)
	for i := 0; i < n && d.cursor < d.table.Len(); i++ {
		d.send()
	}
}

// Advance sends the command under the cursor. Once the table is used up it
// returns false, and every later call is a no-op.
func (d *Dispatcher) Advance() bool {
	if d.exhausted {
		return false
	}
	if d.cursor >= d.table.Len() {
		INFOLogger.Printf("Command table exhausted after %d commands", d.cursor)
		d.exhausted = true
		return false
	}
	d.send()
	return true
}

func (d *Dispatcher) send() {
	cmd := d.table.At(d.cursor)
	INFOLogger.Printf("Dispatching command %d/%d: %s", d.cursor+1, d.table.Len(), cmd)
	// write failures are logged by the poller; the command is dropped either way
	d.poller.Poll(cmd)
	d.cursor++
}
