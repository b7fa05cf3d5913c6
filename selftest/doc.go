// Package selftest exercises a loaded OpenGL context and reports every
// error the driver raises along the way.
//
// Run allocates a vertex array and two buffers, uploads a triangle,
// compiles and links a shader program, clears and draws, then releases
// everything. After each call the driver error flag is polled; failures
// are collected rather than aborting the sequence, so one run enumerates
// all of them:
//
//	if err := selftest.Run(caps); err != nil {
//	    var f *selftest.Failures
//	    if errors.As(err, &f) {
//	        for _, rec := range f.Records {
//	            fmt.Println(rec) // "glBindVertexArray(vao) : GL_INVALID_OPERATION"
//	        }
//	    }
//	}
package selftest
