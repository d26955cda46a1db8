/*
Package codec maps column values that a backend cannot store natively onto
strings.

A StringMapped codec is composed from a name and two functions:

	var Celsius = codec.StringMapped[float64]{
	    Name:   "celsius",
	    Encode: func(v float64) (string, error) { return strconv.FormatFloat(v, 'f', 2, 64), nil },
	    Decode: func(s string) (float64, error) { return strconv.ParseFloat(s, 64) },
	}

Built-in codecs cover ISO-8601 dates, times and timestamps (always UTC) and
base64 blobs. They are registered by name in the registry package.
*/
package codec
