package vm

import (
	"testing"

	"github.com/cwbudde/kya/internal/object"
)

// TestTwoThreadsShareAListUnderALock covers two threads each acquiring a
// shared Lock, appending to a shared List, and releasing; after both join,
// the list has length 2 and no update is lost, exercising the
// suspension-point discipline in internal/concurrency against the
// interpreter lock installed by this package's init().
func TestTwoThreadsShareAListUnderALock(t *testing.T) {
	src := `shared = list()
lock = Lock()
def worker()
 lock.acquire()
 shared.append(1)
 lock.release()
end
t1 = Thread(worker)
t2 = Thread(worker)
t1.start()
t2.start()
t1.join()
t2.join()
shared`

	result, _, err := run(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list, ok := result.(*object.List)
	if !ok {
		t.Fatalf("expected *List, got %#v", result)
	}
	if got := len(list.Snapshot()); got != 2 {
		t.Fatalf("expected 2 appends to survive, got %d", got)
	}
}
