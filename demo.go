package wad

import "fmt"

// Demo is a recorded input sequence played back in attract mode.
type Demo struct {
	StartLevel int32
	Actions    []int32
}

func (d *Demo) Kind() Kind { return KindDemo }

func (d *Demo) Load(r *Reader) error {
	var err error
	if d.StartLevel, err = r.ReadInt32(); err != nil {
		return err
	}
	n, err := r.ReadInt32()
	if err != nil {
		return err
	}
	if n < 0 || int(n) > r.Remaining()/4 {
		return fmt.Errorf("%w: demo: bad action count %d", ErrPayloadDecode, n)
	}
	d.Actions = make([]int32, n)
	for i := range d.Actions {
		if d.Actions[i], err = r.ReadInt32(); err != nil {
			return err
		}
	}
	return nil
}

func (d *Demo) Save(w *Writer) error {
	w.WriteInt32(d.StartLevel)
	w.WriteInt32(int32(len(d.Actions)))
	for _, a := range d.Actions {
		w.WriteInt32(a)
	}
	return nil
}

func (d *Demo) Complete() bool { return true }

func (d *Demo) Placeholder() bool { return false }
