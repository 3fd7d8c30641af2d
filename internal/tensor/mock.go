package tensor

// MockBackend is a stub backend for package-local tests.
//
// Creation functions, indexing, and shape logic only need Device(); every
// compute operation panics. Real kernels are tested in the cpu backend
// package.
type MockBackend struct{}

// NewMockBackend creates a stub backend for tests.
func NewMockBackend() *MockBackend {
	return &MockBackend{}
}

// Name returns the backend name.
func (m *MockBackend) Name() string { return "Mock" }

// Device returns the compute device.
func (m *MockBackend) Device() Device { return CPU }

func (m *MockBackend) Add(a, b *RawTensor) *RawTensor  { panic("mock: Add not implemented") }
func (m *MockBackend) Sub(a, b *RawTensor) *RawTensor  { panic("mock: Sub not implemented") }
func (m *MockBackend) Mul(a, b *RawTensor) *RawTensor  { panic("mock: Mul not implemented") }
func (m *MockBackend) Div(a, b *RawTensor) *RawTensor  { panic("mock: Div not implemented") }
func (m *MockBackend) MatMul(a, b *RawTensor) *RawTensor {
	panic("mock: MatMul not implemented")
}

func (m *MockBackend) AddScalar(x *RawTensor, scalar any) *RawTensor {
	panic("mock: AddScalar not implemented")
}

func (m *MockBackend) MulScalar(x *RawTensor, scalar any) *RawTensor {
	panic("mock: MulScalar not implemented")
}

func (m *MockBackend) Sum(x *RawTensor) *RawTensor { panic("mock: Sum not implemented") }
func (m *MockBackend) Min(x *RawTensor) *RawTensor { panic("mock: Min not implemented") }
func (m *MockBackend) Max(x *RawTensor) *RawTensor { panic("mock: Max not implemented") }

func (m *MockBackend) Reshape(t *RawTensor, newShape Shape) *RawTensor {
	panic("mock: Reshape not implemented")
}

func (m *MockBackend) Transpose(t *RawTensor, axes ...int) *RawTensor {
	panic("mock: Transpose not implemented")
}

func (m *MockBackend) Cast(x *RawTensor, dtype DataType) *RawTensor {
	panic("mock: Cast not implemented")
}
