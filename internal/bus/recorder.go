package bus

import "sync"

// Tx is one recorded write.
type Tx struct {
	Addr uint16
	Data []byte
}

// Recorder is an in-memory Bus that records every write. Failures can be
// injected per address.
type Recorder struct {
	mu    sync.Mutex
	txs   []Tx
	fails map[uint16]error
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{fails: make(map[uint16]error)}
}

// Write records the transaction, then returns the injected error for addr
// if there is one. Failed writes are recorded too.
func (r *Recorder) Write(addr uint16, p []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]byte, len(p))
	copy(data, p)
	r.txs = append(r.txs, Tx{Addr: addr, Data: data})
	return r.fails[addr]
}

// FailAt makes every subsequent write to addr return err. A nil err clears
// the failure.
func (r *Recorder) FailAt(addr uint16, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.fails, addr)
		return
	}
	r.fails[addr] = err
}

// Transactions returns a copy of the recorded writes, oldest first.
func (r *Recorder) Transactions() []Tx {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Tx, len(r.txs))
	copy(out, r.txs)
	return out
}

// To returns the payloads written to addr, oldest first.
func (r *Recorder) To(addr uint16) [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out [][]byte
	for _, tx := range r.txs {
		if tx.Addr == addr {
			out = append(out, tx.Data)
		}
	}
	return out
}

// Reset forgets recorded writes. Injected failures are kept.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.txs = nil
}
