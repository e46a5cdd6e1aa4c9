package tensor

// Dot returns the sum of element-wise products of a and b.
func Dot(a, b Vector) float32 {
	CheckSameLen("tensor.Dot", a, b)
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// MatVec returns m·v, one dot product per row of m.
func MatVec(m Matrix, v Vector) Vector {
	if m.cols != len(v) {
		mismatch("tensor.MatVec", "matrix has %d columns, vector has length %d", m.cols, len(v))
	}
	out := make(Vector, m.rows)
	for i := 0; i < m.rows; i++ {
		row := m.data[i*m.cols : (i+1)*m.cols]
		var sum float32
		for j, x := range row {
			sum += x * v[j]
		}
		out[i] = sum
	}
	return out
}

// Transpose returns a new matrix with rows and columns swapped.
func Transpose(m Matrix) Matrix {
	out := NewMatrix(m.cols, m.rows)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			out.data[j*m.rows+i] = m.data[i*m.cols+j]
		}
	}
	return out
}

// TransposeVec returns mᵀ·v without materializing the transpose.
func TransposeVec(m Matrix, v Vector) Vector {
	if m.rows != len(v) {
		mismatch("tensor.TransposeVec", "matrix has %d rows, vector has length %d", m.rows, len(v))
	}
	out := make(Vector, m.cols)
	for i := 0; i < m.rows; i++ {
		vi := v[i]
		if vi == 0 {
			continue
		}
		row := m.data[i*m.cols : (i+1)*m.cols]
		for j, x := range row {
			out[j] += x * vi
		}
	}
	return out
}

// Outer returns the matrix out[i][j] = x[i]*y[j].
func Outer(x, y Vector) Matrix {
	out := NewMatrix(len(x), len(y))
	for i, xi := range x {
		row := out.data[i*len(y) : (i+1)*len(y)]
		for j, yj := range y {
			row[j] = xi * yj
		}
	}
	return out
}

// Hadamard returns the element-wise product of x and y.
func Hadamard(x, y Vector) Vector {
	CheckSameLen("tensor.Hadamard", x, y)
	out := make(Vector, len(x))
	for i := range x {
		out[i] = x[i] * y[i]
	}
	return out
}

// Add returns x + y.
func Add(x, y Vector) Vector {
	CheckSameLen("tensor.Add", x, y)
	out := make(Vector, len(x))
	for i := range x {
		out[i] = x[i] + y[i]
	}
	return out
}

// Sub returns x - y.
func Sub(x, y Vector) Vector {
	CheckSameLen("tensor.Sub", x, y)
	out := make(Vector, len(x))
	for i := range x {
		out[i] = x[i] - y[i]
	}
	return out
}

// Scale returns f*v.
func Scale(v Vector, f float32) Vector {
	out := make(Vector, len(v))
	for i, x := range v {
		out[i] = x * f
	}
	return out
}

// Argmax returns the index of the largest element of v.
// Ties resolve to the lowest index. Returns -1 for an empty vector.
func Argmax(v Vector) int {
	if len(v) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}
