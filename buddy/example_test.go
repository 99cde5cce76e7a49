package buddy

import "fmt"

func Example() {
	z, _ := NewZone(1024*1024, WithPageShift(16), WithMaxOrder(4))
	defer z.Close()

	p1, _ := z.AllocPages(0) // one 64KiB page
	p2, _ := z.AllocPages(1) // two contiguous 64KiB pages

	fmt.Printf("p1 offset=%d len=%d\n", p1.Index()*z.PageSize(), len(p1.Bytes(0)))
	fmt.Printf("p2 offset=%d len=%d\n", p2.Index()*z.PageSize(), len(p2.Bytes(1)))

	z.FreePages(p1)
	z.FreePages(p2)

	// Output:
	// p1 offset=0 len=65536
	// p2 offset=131072 len=131072
}
