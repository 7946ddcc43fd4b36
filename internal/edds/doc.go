/*
Package edds reads and writes EDDS (Enfusion DDS) texture containers and
serves them as a native transcoder backend.

A container is a DDS header followed by a block table and one block body per
mip level, smallest level first. A block is stored raw (COPY) or as an LZ4
chunk stream decoded against a rolling 64KB window.

Sessions decode the requested level with bcn and convert it into the
requested target. RGBA32, RGB565, BC1 and BC3 are produced; other targets
report a zero size and fail to transcode.
*/
package edds
