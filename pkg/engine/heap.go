package engine

// slotHeap is a container/heap.Interface over printer slots ordered by
// currentTime, so the simulator always advances whichever printer becomes
// free earliest.
type slotHeap []*printerSlot

func (h slotHeap) Len() int { return len(h) }

func (h slotHeap) Less(i, j int) bool { return h[i].currentTime.Before(h[j].currentTime) }

func (h slotHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *slotHeap) Push(x interface{}) {
	*h = append(*h, x.(*printerSlot))
}

func (h *slotHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}
