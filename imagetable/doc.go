/*
Package imagetable implements a reader and writer for the image table embedded
at the end of every legacy object definition.

The table is written as a 32-bit image count and a 32-bit payload size,
followed by one fixed 18 byte element per image and finally the raw pixel
payload for all of the images concatenated together. All values are little
endian and there is no padding.

Each element records where its pixels start as an offset relative to the
beginning of the payload. The offset is kept as-is once loaded; Pixels
resolves it against the buffer owned by the table, so no element can outlive
or point outside of the data it refers to.
*/
package imagetable
