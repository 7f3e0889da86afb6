package db

// Mailbox is the cross-worker backend: it owns a real Database on a
// single dedicated goroutine and accepts requests over a channel,
// modeling the original's shared-memory ring-buffer protocol without a
// WASM worker boundary to cross. A second request from the same caller
// is never issued before the previous one completes, so the mailbox
// goroutine only ever has one request in flight at a time — callers get
// that ordering guarantee for free by virtue of Go's synchronous channel
// send/receive.
type Mailbox struct {
	requests chan mailboxRequest
	done     chan struct{}
}

type mailboxRequest struct {
	run   func(Database)
	reply chan struct{}
}

// NewMailbox starts the owning goroutine over backend and returns a
// Mailbox handle. backend is never touched from any other goroutine after
// this call.
func NewMailbox(backend Database) *Mailbox {
	m := &Mailbox{
		requests: make(chan mailboxRequest),
		done:     make(chan struct{}),
	}
	go m.loop(backend)
	return m
}

func (m *Mailbox) loop(backend Database) {
	defer close(m.done)
	for req := range m.requests {
		req.run(backend)
		close(req.reply)
	}
}

// call dispatches fn to the owning goroutine and busy-waits (blocks) on
// its completion, mirroring the original's "write request, wait on output
// slot" round trip.
func (m *Mailbox) call(fn func(Database)) {
	reply := make(chan struct{})
	m.requests <- mailboxRequest{run: fn, reply: reply}
	<-reply
}

func (m *Mailbox) Get(key []byte) (val []byte, err error) {
	m.call(func(d Database) { val, err = d.Get(key) })
	return
}

func (m *Mailbox) Has(key []byte) (ok bool, err error) {
	m.call(func(d Database) { ok, err = d.Has(key) })
	return
}

func (m *Mailbox) Put(key, value []byte) (err error) {
	m.call(func(d Database) { err = d.Put(key, value) })
	return
}

func (m *Mailbox) Delete(key []byte) (err error) {
	m.call(func(d Database) { err = d.Delete(key) })
	return
}

// NewIteratorWithPrefix and NewIteratorRange materialize the full result
// set in one round trip: the mailbox's synchronous, single-outstanding-
// request discipline gives an iterator no opportunity to suspend the
// owning goroutine mid-scan without blocking every other caller, so
// unlike the embedded backend, iteration here is eager rather than lazy.
// This mirrors the original protocol note (§4.2/§9) that every predicate
// evaluation during cross-worker iteration is itself a blocking round
// trip; collecting eagerly here is the in-process analogue of that.
func (m *Mailbox) NewIteratorWithPrefix(prefix []byte, dir Direction) Iterator {
	var kvs []kv
	m.call(func(d Database) { kvs = drain(d.NewIteratorWithPrefix(prefix, dir)) })
	return &sliceIterator{kvs: kvs, idx: -1}
}

func (m *Mailbox) NewIteratorRange(start, end []byte, dir Direction) Iterator {
	var kvs []kv
	m.call(func(d Database) { kvs = drain(d.NewIteratorRange(start, end, dir)) })
	return &sliceIterator{kvs: kvs, idx: -1}
}

func (m *Mailbox) NewBatch() Batch { return &mailboxBatch{mb: m} }

// Close stops accepting requests and waits for the owning goroutine to
// drain, then closes the underlying backend.
func (m *Mailbox) Close() error {
	var err error
	m.call(func(d Database) { err = d.Close() })
	close(m.requests)
	<-m.done
	return err
}

type kv struct {
	key, value []byte
}

func drain(it Iterator) []kv {
	defer it.Release()
	var out []kv
	for it.Next() {
		k := append([]byte(nil), it.Key()...)
		v := append([]byte(nil), it.Value()...)
		out = append(out, kv{k, v})
	}
	return out
}

type sliceIterator struct {
	kvs []kv
	idx int
}

func (s *sliceIterator) Next() bool {
	s.idx++
	return s.idx < len(s.kvs)
}
func (s *sliceIterator) Key() []byte   { return s.kvs[s.idx].key }
func (s *sliceIterator) Value() []byte { return s.kvs[s.idx].value }
func (s *sliceIterator) Release()      {}
func (s *sliceIterator) Error() error  { return nil }

// mailboxBatch queues operations locally and, like the embedded backend,
// only dispatches them to the owning goroutine on Write — the mailbox
// protocol never lets a partially-built batch touch the backend.
type mailboxBatch struct {
	mb  *Mailbox
	ops []batchOp
}

type batchOp struct {
	del        bool
	key, value []byte
}

func (b *mailboxBatch) Put(key, value []byte) error {
	b.ops = append(b.ops, batchOp{key: key, value: value})
	return nil
}
func (b *mailboxBatch) Delete(key []byte) error {
	b.ops = append(b.ops, batchOp{del: true, key: key})
	return nil
}
func (b *mailboxBatch) Reset() { b.ops = b.ops[:0] }
func (b *mailboxBatch) Len() int { return len(b.ops) }

func (b *mailboxBatch) Write() (err error) {
	ops := b.ops
	b.mb.call(func(d Database) {
		real := d.NewBatch()
		for _, op := range ops {
			if op.del {
				if e := real.Delete(op.key); e != nil {
					err = e
					return
				}
				continue
			}
			if e := real.Put(op.key, op.value); e != nil {
				err = e
				return
			}
		}
		err = real.Write()
	})
	return
}
