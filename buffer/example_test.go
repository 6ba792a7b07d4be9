package buffer_test

import (
	"fmt"

	"github.com/c360/streamkit/buffer"
)

func ExampleNew() {
	buf, err := buffer.New[string](2)
	if err != nil {
		panic(err)
	}

	buf.Write("alpha")
	buf.Write("beta")
	buf.Write("gamma") // full: overwrites "alpha"

	for {
		value, ok := buf.Read()
		if !ok {
			break
		}
		fmt.Println(value)
	}
	// Output:
	// beta
	// gamma
}

func ExampleNew_fullFlag() {
	buf, err := buffer.New[int](3, buffer.WithStrategy[int](buffer.FullFlag))
	if err != nil {
		panic(err)
	}

	for i := 0; i < 5; i++ {
		buf.Write(i)
	}

	fmt.Println("size:", buf.Size())
	fmt.Println("full:", buf.IsFull())
	value, _ := buf.Read()
	fmt.Println("oldest:", value)
	// Output:
	// size: 3
	// full: true
	// oldest: 2
}

func ExampleWithDropCallback() {
	buf, err := buffer.New[int](1,
		buffer.WithDropCallback[int](func(item int) {
			fmt.Println("dropped:", item)
		}),
	)
	if err != nil {
		panic(err)
	}

	buf.Write(1)
	buf.Write(2)

	value, _ := buf.Read()
	fmt.Println("read:", value)
	// Output:
	// dropped: 1
	// read: 2
}
