package iterthreads_test

import (
	"context"
	"errors"
	"fmt"

	iterthreads "github.com/ivalmian/iterator-threads"
)

// ExampleIterator_Next drives the iterator by hand with Start, Next and Stop.
func ExampleIterator_Next() {
	it, _ := iterthreads.New(iterthreads.FromSlice([]string{"a", "b", "c"}))
	_ = it.Start(context.Background())
	defer it.Stop()

	for {
		v, err := it.Next()
		if errors.Is(err, iterthreads.ErrEndOfSequence) {
			break
		}
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Println(v)
	}

	// Output:
	// a
	// b
	// c
}
