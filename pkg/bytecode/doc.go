// Package bytecode lowers one resolved function body to instructions for a
// register-machine virtual executor. The machine has an implicit
// accumulator plus an integer-indexed register file; most instructions read
// one explicit register and the accumulator and leave their result in the
// accumulator.
//
// The package has three layers:
//
//   - BytecodeArrayBuilder: the instruction sink. It owns physical
//     instruction accumulation, the constant pool, label allocation and
//     binding with forward-reference patching, and finalization to an
//     immutable Program.
//
//   - Register plumbing: a flat frame index space laid out as
//     [receiver][parameters][locals][temporaries], and a stack-disciplined
//     temporary register allocator whose scopes reclaim their registers on
//     exit.
//
//   - Generator: a single-pass recursive-descent dispatcher over the ast
//     node kinds. Each rule either fully emits its instructions or fails
//     before emitting any. Node kinds without a lowering rule produce a
//     distinguishable UnsupportedConstructError; violated internal
//     invariants (unmatched break targets, broken register contiguity,
//     non-LIFO scope teardown) panic, because they mean an upstream
//     precondition was broken.
//
// Lowering is single-threaded and synchronous: each pass owns its builder,
// allocator and control-scope chain exclusively, so independent passes can
// run in parallel without locking.
//
// Finalized programs serialize to canonical CBOR (wire.go), hash
// deterministically (program.go) and can be cached in a progstore.Store.
package bytecode
