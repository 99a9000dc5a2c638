package basic

// LinkedHashMap 按插入顺序遍历的map，更新已有key不改变其位置
type LinkedHashMap struct {
	itemMap map[string]*linkedHashMapNode
	head    *linkedHashMapNode
	tail    *linkedHashMapNode
}

func NewLinkHashMap() *LinkedHashMap {
	return &LinkedHashMap{
		itemMap: make(map[string]*linkedHashMapNode),
	}
}

type linkedHashMapNode struct {
	key   string
	value interface{}
	next  *linkedHashMapNode
}

func (m *LinkedHashMap) Put(k string, v interface{}) {
	if n, ok := m.itemMap[k]; ok {
		n.value = v
		return
	}

	n := &linkedHashMapNode{
		key:   k,
		value: v,
	}
	m.itemMap[k] = n
	m.appendTail(n)
}

func (m *LinkedHashMap) Get(k string) (interface{}, bool) {
	if n, ok := m.itemMap[k]; ok {
		return n.value, true
	}
	return nil, false
}

func (m *LinkedHashMap) Size() int {
	return len(m.itemMap)
}

func (m *LinkedHashMap) Keys() []string {
	res := make([]string, 0, len(m.itemMap))
	for p := m.head; p != nil; p = p.next {
		res = append(res, p.key)
	}
	return res
}

// Range 按插入顺序遍历，fn返回false时停止
func (m *LinkedHashMap) Range(fn func(k string, v interface{}) bool) {
	for p := m.head; p != nil; p = p.next {
		if !fn(p.key, p.value) {
			return
		}
	}
}

func (m *LinkedHashMap) appendTail(n *linkedHashMapNode) {
	if m.tail == nil {
		m.head = n
		m.tail = n
		return
	}

	m.tail.next = n
	m.tail = n
}
